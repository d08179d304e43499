package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/middleware"
	"github.com/hudumalink/hudumalink-backend/internal/models"
	"github.com/hudumalink/hudumalink-backend/internal/services/lifecycle"
)

type ProposalHandler struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Service
}

func NewProposalHandler(db *gorm.DB, lc *lifecycle.Service) *ProposalHandler {
	return &ProposalHandler{DB: db, Lifecycle: lc}
}

type CreateProposalRequest struct {
	ProjectID string `json:"projectId"`
	Message   string `json:"message"`
	Price     int64  `json:"price"`
	Timeline  string `json:"timeline"`
}

type ProposalOut struct {
	ID              string       `json:"id"`
	ProjectID       string       `json:"project_id"`
	DesignerID      string       `json:"designer_id"`
	Message         string       `json:"message"`
	Price           int64        `json:"price"`
	Timeline        string       `json:"timeline"`
	Status          string       `json:"status"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	Project         *ProjectMini `json:"project,omitempty"`
	Designer        *UserMini    `json:"designer,omitempty"`
}

func toProposalOut(p *models.Proposal) ProposalOut {
	return ProposalOut{
		ID:              p.ID.String(),
		ProjectID:       p.ProjectID.String(),
		DesignerID:      p.DesignerID.String(),
		Message:         p.Message,
		Price:           p.Price,
		Timeline:        p.Timeline,
		Status:          string(p.Status),
		RejectionReason: p.RejectionReason,
		CreatedAt:       p.CreatedAt,
		Project:         toProjectMini(p.Project),
		Designer:        toUserMini(p.Designer),
	}
}

// Create submits a designer's bid on an open project. The unique index on
// (project, designer) turns a repeat submission into a distinct conflict.
func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req CreateProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	req.Message = strings.TrimSpace(req.Message)
	req.Timeline = strings.TrimSpace(req.Timeline)

	if req.ProjectID == "" || req.Message == "" || req.Timeline == "" || req.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "All fields are required: projectId, message, price, timeline",
		})
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Project not found"})
	}
	if project.Status != models.ProjectOpen {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Project is no longer open for proposals"})
	}

	proposal := models.Proposal{
		ProjectID:  projectID,
		DesignerID: user.ID,
		Message:    req.Message,
		Price:      req.Price,
		Timeline:   req.Timeline,
		Status:     models.ProposalPending,
	}

	if err := h.DB.Create(&proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "You have already sent a proposal for this project",
			})
		}
		log.Println("Proposal creation error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to send proposal"})
	}

	proposal.Designer = user

	return c.JSON(fiber.Map{
		"success":  true,
		"proposal": toProposalOut(&proposal),
		"message":  "Proposal sent successfully!",
	})
}

// ListMine returns the calling designer's proposals, newest first, with the
// referenced project's summary joined in.
func (h *ProposalHandler) ListMine(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var proposals []models.Proposal
	if err := h.DB.
		Preload("Project").
		Where("designer_id = ?", user.ID).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		log.Println("Error fetching proposals:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch proposals"})
	}

	out := make([]ProposalOut, 0, len(proposals))
	for i := range proposals {
		out = append(out, toProposalOut(&proposals[i]))
	}

	return c.JSON(fiber.Map{"success": true, "proposals": out})
}

// ListForProject returns every proposal on a project with designer summaries
// joined in. Ownership is not enforced here; callers gate access upstream.
func (h *ProposalHandler) ListForProject(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("projectId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}

	var proposals []models.Proposal
	if err := h.DB.
		Preload("Designer").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&proposals).Error; err != nil {
		log.Println("Fetch project proposals error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch proposals"})
	}

	out := make([]ProposalOut, 0, len(proposals))
	for i := range proposals {
		out = append(out, toProposalOut(&proposals[i]))
	}

	return c.JSON(fiber.Map{"success": true, "proposals": out})
}

// Accept hires the proposal's designer: proposal -> accepted, project ->
// in_progress with the designer assigned, atomically.
func (h *ProposalHandler) Accept(c *fiber.Ctx) error {
	proposalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid proposal ID"})
	}

	_, err = h.Lifecycle.AcceptProposal(c.Context(), proposalID)
	switch {
	case err == nil:
	case errors.Is(err, lifecycle.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Proposal not found"})
	case errors.Is(err, lifecycle.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Only pending proposals can be accepted"})
	default:
		log.Println("Accept proposal error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to accept proposal"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Designer hired successfully!"})
}

type RejectProposalRequest struct {
	Reason string `json:"reason"`
}

// Reject declines a pending proposal, project owner only.
func (h *ProposalHandler) Reject(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	proposalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid proposal ID"})
	}

	var req RejectProposalRequest
	_ = c.BodyParser(&req)

	proposal, err := h.Lifecycle.RejectProposal(c.Context(), proposalID, req.Reason, user)
	switch {
	case err == nil:
	case errors.Is(err, lifecycle.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Proposal not found"})
	case errors.Is(err, lifecycle.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Access denied: you can only reject proposals for your own projects",
		})
	case errors.Is(err, lifecycle.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Only pending proposals can be rejected"})
	default:
		log.Println("Reject proposal error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to reject proposal"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"proposal": toProposalOut(proposal),
		"message":  "Proposal rejected successfully",
	})
}
