package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/models"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetBySubject resolves an external identity reference to the local record.
// The frontend calls this right after sign-in to learn roles and designer
// state.
func (h *UserHandler) GetBySubject(c *fiber.Ctx) error {
	subjectID := c.Params("subjectId")

	var user models.User
	err := h.DB.Preload("DesignerProfile").
		Where("subject_id = ?", subjectID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}
	if err != nil {
		log.Println("Error fetching user:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Server error"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":               user.ID,
			"roles":            user.Roles,
			"designer_profile": user.DesignerProfile,
		},
	})
}
