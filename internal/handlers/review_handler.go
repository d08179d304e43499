package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/middleware"
	"github.com/hudumalink/hudumalink-backend/internal/models"
	"github.com/hudumalink/hudumalink-backend/internal/services/rating"
)

type ReviewHandler struct {
	DB     *gorm.DB
	Rating *rating.Service
}

func NewReviewHandler(db *gorm.DB, rs *rating.Service) *ReviewHandler {
	return &ReviewHandler{DB: db, Rating: rs}
}

type CreateReviewRequest struct {
	ProjectID  string `json:"projectId"`
	DesignerID string `json:"designerId"`
	Rating     int    `json:"rating"`
	Review     string `json:"review"`
}

// Create submits the one review a completed project gets and refreshes the
// designer's aggregate.
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	if req.ProjectID == "" || req.DesignerID == "" || req.Rating == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Project ID, designer ID and rating are required",
		})
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}
	designerID, err := uuid.Parse(req.DesignerID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid designer ID"})
	}

	review, err := h.Rating.Submit(c.Context(), rating.SubmitInput{
		ProjectID:  projectID,
		DesignerID: designerID,
		Rating:     req.Rating,
		Comment:    req.Review,
	}, user)
	switch {
	case err == nil:
	case errors.Is(err, rating.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Project not found"})
	case errors.Is(err, rating.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "You can only review your own projects"})
	case errors.Is(err, rating.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Project must be completed before reviewing"})
	case errors.Is(err, rating.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "You have already reviewed this project"})
	case errors.Is(err, rating.ErrInvalidRating):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Rating must be between 1 and 5"})
	default:
		log.Println("Error creating review:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create review"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"review":  review,
		"message": "Review submitted successfully",
	})
}

// ListForDesigner is the public review feed on a designer profile, with the
// aggregate stats alongside.
func (h *ReviewHandler) ListForDesigner(c *fiber.Ctx) error {
	designerID, err := uuid.Parse(c.Params("designerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid designer ID"})
	}

	var reviews []models.Review
	if err := h.DB.
		Preload("Client").
		Preload("Project").
		Where("designer_id = ?", designerID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		log.Println("Error fetching designer reviews:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch reviews"})
	}

	stats, err := h.Rating.DesignerStats(c.Context(), designerID)
	if err != nil {
		log.Println("Error computing review stats:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch reviews"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"reviews": reviews,
		"stats":   stats,
	})
}

// GetForProject returns the project's review, if any.
func (h *ReviewHandler) GetForProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}

	var review models.Review
	err = h.DB.
		Preload("Client").
		Preload("Designer").
		First(&review, "project_id = ?", projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.JSON(fiber.Map{"success": true, "review": nil})
	}
	if err != nil {
		log.Println("Error fetching project review:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch review"})
	}

	return c.JSON(fiber.Map{"success": true, "review": review})
}
