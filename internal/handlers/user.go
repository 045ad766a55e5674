package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/dto"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/imaging"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/services"
)

// UserHandler serves the authenticated user's profile and avatars.
type UserHandler struct {
	userService *services.UserService
	log         *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		log:         log,
	}
}

// GetCurrentUser returns the authenticated user.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateCurrentUser applies a partial update to name, email, password or age.
func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.userService.UpdateProfile(c.Request.Context(), user, updates)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUpdates) {
			apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidUpdate, "Invalid updates!")
			return
		}
		// Field rules run when the record is saved and are reported like any
		// other persistence failure.
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*updated))
}

// DeleteCurrentUser deletes the account with all of its tasks.
func (h *UserHandler) DeleteCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), user); err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UploadAvatar stores the multipart "avatar" image as the user's avatar.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	file, err := c.FormFile(constants.AvatarFormField)
	if err != nil {
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFile, "Please upload an image")
		return
	}
	if err := imaging.Validate(file.Filename, file.Size); err != nil {
		h.respondUserError(c, err)
		return
	}

	src, err := file.Open()
	if err != nil {
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFile, "Please upload an image")
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, constants.MaxAvatarBytes+1))
	if err != nil {
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFile, "Please upload an image")
		return
	}

	if err := h.userService.SetAvatar(c.Request.Context(), user, data); err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Avatar uploaded"})
}

// DeleteAvatar clears the user's avatar.
func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.userService.ClearAvatar(c.Request.Context(), user); err != nil {
		h.respondUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Avatar deleted"})
}

// GetAvatar serves any user's avatar as PNG. No authentication required.
func (h *UserHandler) GetAvatar(c *gin.Context) {
	avatar, err := h.userService.GetAvatar(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondUserError(c, err)
		return
	}

	c.Data(http.StatusOK, constants.AvatarContentType, avatar)
}

func (h *UserHandler) respondUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, imaging.ErrFileTooLarge):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFile, "File too large")
	case errors.Is(err, imaging.ErrUnsupportedImage):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidFile, "Please upload an image")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrAvatarNotFound):
		apierrors.NotFound(c, "Avatar not found")
	default:
		logger.FromContext(c, h.log).Error("user request failed", zap.Error(err))
		apierrors.InternalError(c, "")
	}
}
