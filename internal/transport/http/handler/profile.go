package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devconnect/internal/app"
	"devconnect/internal/transport/http/middleware"
	"devconnect/internal/transport/http/response"
)

type ProfileHandler struct {
	profileService *app.ProfileService
	logger         *zap.Logger
}

type UpsertProfileRequest struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Status         *string `json:"status" binding:"required"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills" binding:"required"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	Linkedin       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

var upsertProfileMessages = map[string]string{
	"Status": "status is required",
	"Skills": "skills is required",
}

type ExperienceRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var experienceMessages = map[string]string{
	"Title":   "title is required",
	"Company": "company is required",
	"From":    "from date is required",
}

type EducationRequest struct {
	School       string `json:"school" binding:"required"`
	Degree       string `json:"degree" binding:"required"`
	FieldOfStudy string `json:"fieldofstudy" binding:"required"`
	From         string `json:"from" binding:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var educationMessages = map[string]string{
	"School":       "school is required",
	"Degree":       "degree is required",
	"FieldOfStudy": "field of study is required",
	"From":         "from date is required",
}

func NewProfileHandler(profileService *app.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, logger: logger}
}

func (h *ProfileHandler) All(c *gin.Context) {
	profiles, err := h.profileService.All(c.Request.Context())
	if err != nil {
		h.logger.Error("list profiles failed", zap.Error(err))
		response.ServerError(c)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

func (h *ProfileHandler) Me(c *gin.Context) {
	profile, err := h.profileService.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, app.ErrProfileNotFound) {
			response.Message(c, http.StatusBadRequest, "There is no Profile for this user")
			return
		}
		h.logger.Error("fetch own profile failed", zap.Error(err))
		response.ServerError(c)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) ByUserID(c *gin.Context) {
	profile, err := h.profileService.ByUserID(c.Request.Context(), c.Param("userID"))
	if err != nil {
		if errors.Is(err, app.ErrProfileNotFound) {
			response.Message(c, http.StatusBadRequest, "Profile not found")
			return
		}
		h.logger.Error("fetch profile by user failed", zap.Error(err))
		response.ServerError(c)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err, upsertProfileMessages)
		return
	}

	profile, err := h.profileService.Upsert(c.Request.Context(), middleware.UserID(c), app.UpsertProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Skills:         req.Skills,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		h.respondProfileMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req ExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err, experienceMessages)
		return
	}

	profile, err := h.profileService.AddExperience(c.Request.Context(), middleware.UserID(c), app.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		h.respondProfileMutation(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	profile, err := h.profileService.RemoveExperience(c.Request.Context(), middleware.UserID(c), c.Param("expID"))
	if err != nil {
		h.respondProfileMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req EducationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err, educationMessages)
		return
	}

	profile, err := h.profileService.AddEducation(c.Request.Context(), middleware.UserID(c), app.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		h.respondProfileMutation(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	profile, err := h.profileService.RemoveEducation(c.Request.Context(), middleware.UserID(c), c.Param("eduID"))
	if err != nil {
		h.respondProfileMutation(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profileService.Delete(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.logger.Error("delete profile failed", zap.Error(err))
		response.ServerError(c)
		return
	}
	response.Message(c, http.StatusOK, "User deleted")
}

func (h *ProfileHandler) respondProfileMutation(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrProfileNotFound):
		response.Message(c, http.StatusBadRequest, "There is no Profile for this user")
	case errors.Is(err, app.ErrInvalidDate):
		response.FieldErrors(c, http.StatusBadRequest, "invalid date format")
	default:
		h.logger.Error("profile mutation failed", zap.Error(err))
		response.ServerError(c)
	}
}
