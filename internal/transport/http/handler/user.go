package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devconnect/internal/app"
	"devconnect/internal/transport/http/response"
)

type UserHandler struct {
	authService *app.AuthService
	logger      *zap.Logger
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

var registerMessages = map[string]string{
	"Name":     "name is required",
	"Email":    "please enter a valid Email",
	"Password": "please enter a Password with 6 or more characters",
}

func NewUserHandler(authService *app.AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{authService: authService, logger: logger}
}

func (h *UserHandler) Index(c *gin.Context) {
	c.String(http.StatusOK, "Users Route")
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err, registerMessages)
		return
	}

	token, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, app.ErrUserExists) {
			response.FieldErrors(c, http.StatusBadRequest, "User already exists")
			return
		}
		h.logger.Error("register user failed", zap.Error(err))
		response.ServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
