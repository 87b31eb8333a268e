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

type AuthHandler struct {
	authService *app.AuthService
	logger      *zap.Logger
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

var loginMessages = map[string]string{
	"Email":    "please enter a valid Email",
	"Password": "Password is required",
}

func NewAuthHandler(authService *app.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// CurrentUser returns the authenticated user without the password digest.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, app.ErrUserNotFound) {
			response.Message(c, http.StatusUnauthorized, "user not found")
			return
		}
		h.logger.Error("fetch current user failed", zap.Error(err))
		response.ServerError(c)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err, loginMessages)
		return
	}

	token, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		// Unknown email and wrong password answer identically so account
		// existence is never revealed.
		if errors.Is(err, app.ErrInvalidCredentials) {
			response.FieldErrors(c, http.StatusUnauthorized, "Invalid Credentials")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.ServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
