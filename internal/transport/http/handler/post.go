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

type PostHandler struct {
	postService *app.PostService
	logger      *zap.Logger
}

type PostRequest struct {
	Text string `json:"text" binding:"required"`
}

var postMessages = map[string]string{
	"Text": "text is required",
}

func NewPostHandler(postService *app.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{postService: postService, logger: logger}
}

func (h *PostHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err, postMessages)
		return
	}

	post, err := h.postService.Create(c.Request.Context(), middleware.UserID(c), req.Text)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) All(c *gin.Context) {
	posts, err := h.postService.All(c.Request.Context())
	if err != nil {
		h.logger.Error("list posts failed", zap.Error(err))
		response.ServerError(c)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) ByID(c *gin.Context) {
	post, err := h.postService.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		h.respond(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Post removed")
}

func (h *PostHandler) Like(c *gin.Context) {
	post, err := h.postService.Like(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post.Likes)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	post, err := h.postService.Unlike(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post.Likes)
}

func (h *PostHandler) AddComment(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Validation(c, err, postMessages)
		return
	}

	post, err := h.postService.AddComment(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Text)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, post.Comments)
}

func (h *PostHandler) RemoveComment(c *gin.Context) {
	post, err := h.postService.RemoveComment(c.Request.Context(), c.Param("id"), c.Param("commentID"), middleware.UserID(c))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, post.Comments)
}

func (h *PostHandler) respond(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrPostNotFound):
		response.Message(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, app.ErrCommentNotFound):
		response.Message(c, http.StatusNotFound, "Comment does not exist")
	case errors.Is(err, app.ErrNotAuthorized):
		response.Message(c, http.StatusUnauthorized, "User not authorized")
	case errors.Is(err, app.ErrAlreadyLiked):
		response.Message(c, http.StatusBadRequest, "Post already liked")
	case errors.Is(err, app.ErrNotLiked):
		response.Message(c, http.StatusBadRequest, "Post has not yet been liked")
	case errors.Is(err, app.ErrUserNotFound):
		response.Message(c, http.StatusUnauthorized, "user not found")
	default:
		h.logger.Error("post operation failed", zap.Error(err))
		response.ServerError(c)
	}
}
