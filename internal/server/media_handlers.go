package server

import (
	"errors"
	"fmt"
	"io"

	"farmfit/internal/models"
	"farmfit/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxPhotoUploadBytes = 10 * 1024 * 1024

// UploadPhoto handles POST /api/media/photos
// @Summary Upload a photo
// @Description Accepts a multipart "photo" file, normalizes it to WebP and stores it. Returns the public URL.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Photo file"
// @Success 201 {object} object{url=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /media/photos [post]
func (s *Server) UploadPhoto(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	if s.blobStore == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("photo uploads are disabled")))
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A photo file is required"))
	}
	if fileHeader.Size > maxPhotoUploadBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("Photo too large (max %dMB)", maxPhotoUploadBytes/(1024*1024))))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoUploadBytes+1))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}
	if len(data) > maxPhotoUploadBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("Photo too large (max %dMB)", maxPhotoUploadBytes/(1024*1024))))
	}

	normalized, err := storage.NormalizePhoto(data)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Unsupported image format"))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	key := fmt.Sprintf("photos/%d/%s.webp", userID, uuid.NewString())
	url, err := s.blobStore.Upload(ctx, key, "image/webp", normalized)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
