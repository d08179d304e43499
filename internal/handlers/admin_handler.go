package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/models"
)

// AdminHandler serves the moderation surface. Every route behind it is
// gated by RequireAuth + RequireRole(admin).
type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// Stats powers the admin dashboard counters.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	var (
		totalUsers, totalClients, totalDesigners           int64
		pendingDesigners, approvedDesigners                int64
		verifiedDesigners, superVerifiedDesigners          int64
		totalProjects, openProjects, inProgress, completed int64
	)

	users := h.DB.Model(&models.User{})
	profiles := h.DB.Model(&models.DesignerProfile{})
	projects := h.DB.Model(&models.Project{})

	counts := []struct {
		q   *gorm.DB
		dst *int64
	}{
		{users.Session(&gorm.Session{}), &totalUsers},
		{users.Session(&gorm.Session{}).Where("roles LIKE ?", "%client%"), &totalClients},
		{users.Session(&gorm.Session{}).Where("roles LIKE ?", "%designer%"), &totalDesigners},
		{profiles.Session(&gorm.Session{}).Where("status = ?", models.DesignerPending), &pendingDesigners},
		{profiles.Session(&gorm.Session{}).Where("status = ?", models.DesignerApproved), &approvedDesigners},
		{profiles.Session(&gorm.Session{}).Where("verified = ?", true), &verifiedDesigners},
		{profiles.Session(&gorm.Session{}).Where("super_verified = ?", true), &superVerifiedDesigners},
		{projects.Session(&gorm.Session{}), &totalProjects},
		{projects.Session(&gorm.Session{}).Where("status = ?", models.ProjectOpen), &openProjects},
		{projects.Session(&gorm.Session{}).Where("status = ?", models.ProjectInProgress), &inProgress},
		{projects.Session(&gorm.Session{}).Where("status = ?", models.ProjectCompleted), &completed},
	}
	for _, cnt := range counts {
		if err := cnt.q.Count(cnt.dst).Error; err != nil {
			log.Println("Admin stats error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to load admin statistics"})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats": fiber.Map{
			"users": fiber.Map{
				"total":                  totalUsers,
				"clients":                totalClients,
				"designers":              totalDesigners,
				"pendingDesigners":       pendingDesigners,
				"approvedDesigners":      approvedDesigners,
				"verifiedDesigners":      verifiedDesigners,
				"superVerifiedDesigners": superVerifiedDesigners,
			},
			"projects": fiber.Map{
				"total":      totalProjects,
				"open":       openProjects,
				"inProgress": inProgress,
				"completed":  completed,
			},
		},
	})
}

// ListDesigners returns every designer, optionally filtered by application
// status.
func (h *AdminHandler) ListDesigners(c *fiber.Ctx) error {
	q := h.DB.
		Joins("JOIN designer_profiles ON designer_profiles.user_id = users.id").
		Preload("DesignerProfile").
		Order("users.created_at DESC")

	if status := c.Query("status"); status != "" {
		q = q.Where("designer_profiles.status = ?", status)
	}

	var designers []models.User
	if err := q.Find(&designers).Error; err != nil {
		log.Println("Fetch designers error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch designers"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"designers": designers,
		"count":     len(designers),
	})
}

// PendingDesigners is the review queue shortcut.
func (h *AdminHandler) PendingDesigners(c *fiber.Ctx) error {
	var designers []models.User
	if err := h.DB.
		Joins("JOIN designer_profiles ON designer_profiles.user_id = users.id").
		Where("designer_profiles.status = ?", models.DesignerPending).
		Preload("DesignerProfile").
		Order("users.created_at DESC").
		Find(&designers).Error; err != nil {
		log.Println("Pending designers error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch pending designers"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"designers": designers,
		"count":     len(designers),
	})
}

// loadDesigner fetches a user that actually has a designer profile.
func (h *AdminHandler) loadDesigner(c *fiber.Ctx) (*models.User, error) {
	designerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid designer ID"})
	}

	var designer models.User
	if err := h.DB.Preload("DesignerProfile").First(&designer, "id = ?", designerID).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Designer not found"})
	}
	if designer.DesignerProfile == nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Designer profile missing"})
	}
	return &designer, nil
}

// Approve moves an application to approved and clears any rejection reason.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	designer, ferr := h.loadDesigner(c)
	if designer == nil {
		return ferr
	}

	if err := h.DB.Model(designer.DesignerProfile).Updates(map[string]interface{}{
		"status":           models.DesignerApproved,
		"rejection_reason": "",
	}).Error; err != nil {
		log.Println("Approve designer error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to approve designer"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Designer approved", "designer": designer})
}

// Reject declines an application with a reason.
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	designer, ferr := h.loadDesigner(c)
	if designer == nil {
		return ferr
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Rejected by admin"
	}

	if err := h.DB.Model(designer.DesignerProfile).Updates(map[string]interface{}{
		"status":           models.DesignerRejected,
		"rejection_reason": reason,
	}).Error; err != nil {
		log.Println("Reject designer error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to reject designer"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Designer rejected"})
}

// Suspend toggles an approved designer in and out of suspension.
func (h *AdminHandler) Suspend(c *fiber.Ctx) error {
	designer, ferr := h.loadDesigner(c)
	if designer == nil {
		return ferr
	}

	var req struct {
		Suspend bool   `json:"suspend"`
		Reason  string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	updates := map[string]interface{}{
		"status":           models.DesignerApproved,
		"rejection_reason": "",
	}
	if req.Suspend {
		updates["status"] = models.DesignerSuspended
		updates["rejection_reason"] = strings.TrimSpace(req.Reason)
	}

	if err := h.DB.Model(designer.DesignerProfile).Updates(updates).Error; err != nil {
		log.Println("Suspend designer error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update designer status"})
	}

	msg := "Designer unsuspended"
	if req.Suspend {
		msg = "Designer suspended"
	}
	return c.JSON(fiber.Map{"success": true, "message": msg})
}

// Verify sets the verified trust flag. Unsetting it also drops
// superVerified, keeping the implication intact.
func (h *AdminHandler) Verify(c *fiber.Ctx) error {
	designer, ferr := h.loadDesigner(c)
	if designer == nil {
		return ferr
	}

	var req struct {
		Verified bool `json:"verified"`
	}
	_ = c.BodyParser(&req)

	updates := map[string]interface{}{"verified": req.Verified}
	if !req.Verified {
		updates["super_verified"] = false
	}

	if err := h.DB.Model(designer.DesignerProfile).Updates(updates).Error; err != nil {
		log.Println("Verify designer error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to verify designer"})
	}

	msg := "Designer unverified"
	if req.Verified {
		msg = "Designer verified"
	}
	return c.JSON(fiber.Map{"success": true, "message": msg})
}

// SuperVerify sets the superVerified flag; granting it implies verified.
func (h *AdminHandler) SuperVerify(c *fiber.Ctx) error {
	designer, ferr := h.loadDesigner(c)
	if designer == nil {
		return ferr
	}

	var req struct {
		SuperVerified bool `json:"superVerified"`
	}
	_ = c.BodyParser(&req)

	updates := map[string]interface{}{"super_verified": req.SuperVerified}
	if req.SuperVerified {
		updates["verified"] = true
	}

	if err := h.DB.Model(designer.DesignerProfile).Updates(updates).Error; err != nil {
		log.Println("Super verify error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update super verification"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Super verification updated"})
}

// ListUsers returns every account, newest first.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := h.DB.
		Preload("DesignerProfile").
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		log.Println("Fetch users error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"count":   len(users),
	})
}

// Ban sets or clears the account-level ban. Administrator accounts can
// never be banned.
func (h *AdminHandler) Ban(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid user ID"})
	}

	var target models.User
	if err := h.DB.First(&target, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "User not found"})
	}

	var req struct {
		Banned bool   `json:"banned"`
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	if req.Banned && target.IsAdmin() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Administrators cannot be banned"})
	}

	updates := map[string]interface{}{
		"banned":     req.Banned,
		"ban_reason": "",
		"banned_at":  nil,
	}
	if req.Banned {
		updates["ban_reason"] = strings.TrimSpace(req.Reason)
		updates["banned_at"] = time.Now()
	}

	if err := h.DB.Model(&target).Updates(updates).Error; err != nil {
		log.Println("Ban user error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update user"})
	}

	msg := "User unbanned"
	if req.Banned {
		msg = "User banned"
	}
	return c.JSON(fiber.Map{"success": true, "message": msg})
}

// ListProjects returns every project, newest first.
func (h *AdminHandler) ListProjects(c *fiber.Ctx) error {
	var projects []models.Project
	if err := h.DB.
		Preload("Designer").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		log.Println("Fetch projects error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch projects"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	})
}
