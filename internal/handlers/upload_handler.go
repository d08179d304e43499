package handlers

import (
	"log"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hudumalink/hudumalink-backend/internal/services/media"
)

const (
	maxImageSize  = 10 * 1024 * 1024 // per file
	maxBatchFiles = 10
)

type UploadHandler struct {
	Media *media.Service
}

func NewUploadHandler(m *media.Service) *UploadHandler {
	return &UploadHandler{Media: m}
}

func (h *UploadHandler) uploadOne(c *fiber.Ctx, file *multipart.FileHeader, folder string) (string, error) {
	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.Media.Upload(c.Context(), f, folder)
}

// uploadBatch validates and stores a multipart image batch, returning the
// durable URLs.
func (h *UploadHandler) uploadBatch(c *fiber.Ctx, folder string) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "No images provided"})
	}

	files := form.File["images"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "No images provided"})
	}
	if len(files) > maxBatchFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Too many files, max 10"})
	}

	for _, file := range files {
		if file.Size > maxImageSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "File " + file.Filename + " exceeds 10MB limit",
			})
		}
		if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Only image files are allowed"})
		}
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.uploadOne(c, file, folder)
		if err != nil {
			log.Println("Upload error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to upload images"})
		}
		urls = append(urls, url)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"urls":    urls,
		"count":   len(urls),
	})
}

// ProjectImages stores a batch of client project photos.
func (h *UploadHandler) ProjectImages(c *fiber.Ctx) error {
	return h.uploadBatch(c, "projects")
}

// PortfolioImages stores a batch of designer portfolio shots.
func (h *UploadHandler) PortfolioImages(c *fiber.Ctx) error {
	return h.uploadBatch(c, "portfolios")
}

// ProfileImage stores a single avatar or cover image.
func (h *UploadHandler) ProfileImage(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "No image provided"})
	}
	if file.Size > maxImageSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "File exceeds 10MB limit"})
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Only image files are allowed"})
	}

	url, err := h.uploadOne(c, file, "profiles")
	if err != nil {
		log.Println("Upload error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to upload image"})
	}

	return c.JSON(fiber.Map{"success": true, "url": url})
}

// Delete removes an asset from the media host by public id.
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		PublicID string `json:"publicId"`
	}
	if err := c.BodyParser(&req); err != nil || req.PublicID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Public ID required"})
	}

	if err := h.Media.Destroy(c.Context(), req.PublicID); err != nil {
		log.Println("Delete error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete image"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Image deleted successfully"})
}
