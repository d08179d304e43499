package handlers

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/middleware"
	"github.com/hudumalink/hudumalink-backend/internal/models"
)

type DesignerHandler struct {
	DB *gorm.DB
}

func NewDesignerHandler(db *gorm.DB) *DesignerHandler {
	return &DesignerHandler{DB: db}
}

// DesignerOut is the public directory shape of a designer.
type DesignerOut struct {
	ID            string   `json:"id"`
	SubjectID     string   `json:"subject_id"`
	Name          string   `json:"name"`
	Avatar        string   `json:"avatar,omitempty"`
	Location      string   `json:"location"`
	About         string   `json:"about"`
	CoverImage    string   `json:"cover_image,omitempty"`
	CalendlyLink  string   `json:"calendly_link,omitempty"`
	VideoURL      string   `json:"video_url,omitempty"`
	Styles        []string `json:"styles"`
	StartingPrice int64    `json:"starting_price"`
	ResponseTime  string   `json:"response_time,omitempty"`
	Verified      bool     `json:"verified"`
	SuperVerified bool     `json:"super_verified"`

	Rating            float64  `json:"rating"`
	ReviewCount       int      `json:"review_count"`
	ProjectsCompleted int      `json:"projects_completed"`
	PortfolioImages   []string `json:"portfolio_images"`
}

func toDesignerOut(u *models.User) DesignerOut {
	out := DesignerOut{
		ID:        u.ID.String(),
		SubjectID: u.SubjectID,
		Name:      u.Name,
		Avatar:    u.Avatar,
	}
	if p := u.DesignerProfile; p != nil {
		out.Location = p.Location
		out.About = p.About
		out.CoverImage = p.CoverImage
		out.CalendlyLink = p.CalendlyLink
		out.VideoURL = p.VideoURL
		out.Styles = p.Styles
		out.StartingPrice = p.StartingPrice
		out.ResponseTime = p.ResponseTime
		out.Verified = p.Verified
		out.SuperVerified = p.SuperVerified
		out.Rating = p.Rating
		out.ReviewCount = p.ReviewCount
		out.ProjectsCompleted = p.ProjectsCompleted
		out.PortfolioImages = p.PortfolioImages
	}
	return out
}

// List is the public directory: approved, unbanned designers.
func (h *DesignerHandler) List(c *fiber.Ctx) error {
	var designers []models.User
	if err := h.DB.
		Joins("JOIN designer_profiles ON designer_profiles.user_id = users.id").
		Where("designer_profiles.status = ? AND users.banned = ?", models.DesignerApproved, false).
		Preload("DesignerProfile").
		Order("users.created_at DESC").
		Find(&designers).Error; err != nil {
		log.Println("Error fetching designers:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch designers"})
	}

	out := make([]DesignerOut, 0, len(designers))
	for i := range designers {
		out = append(out, toDesignerOut(&designers[i]))
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"designers": out,
		"count":     len(out),
	})
}

// Get returns one approved designer's public profile.
func (h *DesignerHandler) Get(c *fiber.Ctx) error {
	designerID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid designer ID"})
	}

	var designer models.User
	if err := h.DB.
		Joins("JOIN designer_profiles ON designer_profiles.user_id = users.id").
		Where("users.id = ? AND designer_profiles.status = ? AND users.banned = ?",
			designerID, models.DesignerApproved, false).
		Preload("DesignerProfile").
		First(&designer).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Designer not found"})
	}

	return c.JSON(fiber.Map{"success": true, "designer": toDesignerOut(&designer)})
}

type DesignerApplication struct {
	IDNumber        string             `json:"idNumber"`
	PortfolioImages []string           `json:"portfolioImages"`
	Credentials     []string           `json:"credentials"`
	References      []models.Reference `json:"references"`
	Location        string             `json:"location"`
	About           string             `json:"about"`
	Styles          []string           `json:"styles"`
	StartingPrice   int64              `json:"startingPrice"`
	ResponseTime    string             `json:"responseTime"`
	CalendlyLink    string             `json:"calendlyLink"`
	VideoURL        string             `json:"videoUrl"`
	SocialLinks     models.SocialLinks `json:"socialLinks"`
}

// Apply files a designer application for the calling user: a pending profile
// plus the designer role. Trust flags and approval stay with admins.
func (h *DesignerHandler) Apply(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	if user.DesignerProfile != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "You have already applied"})
	}

	var req DesignerApplication
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	req.Location = strings.TrimSpace(req.Location)
	req.About = strings.TrimSpace(req.About)
	if req.Location == "" || req.About == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Location and about are required"})
	}

	refs, err := json.Marshal(req.References)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid references"})
	}
	socials, err := json.Marshal(req.SocialLinks)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid social links"})
	}

	profile := models.DesignerProfile{
		UserID:          user.ID,
		Status:          models.DesignerPending,
		IDNumber:        strings.TrimSpace(req.IDNumber),
		PortfolioImages: models.StringList(req.PortfolioImages),
		Credentials:     models.StringList(req.Credentials),
		References:      datatypes.JSON(refs),
		Location:        req.Location,
		About:           req.About,
		Styles:          models.StringList(req.Styles),
		StartingPrice:   req.StartingPrice,
		ResponseTime:    strings.TrimSpace(req.ResponseTime),
		CalendlyLink:    strings.TrimSpace(req.CalendlyLink),
		VideoURL:        strings.TrimSpace(req.VideoURL),
		SocialLinks:     datatypes.JSON(socials),
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.AddRole(models.RoleDesigner)
		return tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("roles", user.Roles).Error
	})
	if err != nil {
		log.Println("Designer application error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to submit application"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"profile": profile,
		"message": "Application submitted for review",
	})
}
