package handlers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/middleware"
	"github.com/hudumalink/hudumalink-backend/internal/models"
	"github.com/hudumalink/hudumalink-backend/internal/services/lifecycle"
)

type ProjectHandler struct {
	DB        *gorm.DB
	Lifecycle *lifecycle.Service
}

func NewProjectHandler(db *gorm.DB, lc *lifecycle.Service) *ProjectHandler {
	return &ProjectHandler{DB: db, Lifecycle: lc}
}

// ListMine returns the calling client's projects, newest first.
func (h *ProjectHandler) ListMine(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var projects []models.Project
	if err := h.DB.
		Preload("Designer").
		Where("client_subject_id = ?", user.SubjectID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		log.Println("Error fetching client projects:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch projects"})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"projects": projects,
		"count":    len(projects),
	})
}

// ListOpen is the public browse feed designers pick projects from.
func (h *ProjectHandler) ListOpen(c *fiber.Ctx) error {
	var projects []models.Project
	if err := h.DB.
		Where("status = ?", models.ProjectOpen).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		log.Println("Error fetching open projects:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch open projects"})
	}

	return c.JSON(fiber.Map{"success": true, "projects": projects})
}

// ListActive returns the calling designer's hired in_progress projects.
func (h *ProjectHandler) ListActive(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var projects []models.Project
	if err := h.DB.
		Where("designer_id = ? AND status = ?", user.ID, models.ProjectInProgress).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		log.Println("Error fetching active projects:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch active projects"})
	}

	return c.JSON(fiber.Map{"success": true, "projects": projects})
}

// Get returns one project to its client, its hired designer, or an admin.
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}

	var project models.Project
	if err := h.DB.Preload("Designer").First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Project not found"})
	}

	isClient := project.Client.SubjectID == user.SubjectID
	isDesigner := project.DesignerID != nil && *project.DesignerID == user.ID

	if !user.IsAdmin() && !isClient && !isDesigner {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Access denied: you are not the project client or hired designer",
		})
	}

	return c.JSON(fiber.Map{"success": true, "project": project})
}

type CreateProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Budget      int64    `json:"budget"`
	Timeline    string   `json:"timeline"`
	Styles      []string `json:"styles"`
	Photos      []string `json:"photos"`
}

// Create posts a new project with the client snapshot embedded. The snapshot
// is copied from the resolved user at creation and never synced afterwards.
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Location = strings.TrimSpace(req.Location)
	req.Timeline = strings.TrimSpace(req.Timeline)

	if req.Title == "" || req.Description == "" || req.Location == "" || req.Timeline == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Title, description, location and timeline are required",
		})
	}
	if req.Budget <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Budget must be positive"})
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Budget:      req.Budget,
		Timeline:    req.Timeline,
		Styles:      models.StringList(req.Styles),
		Photos:      models.StringList(req.Photos),
		Status:      models.ProjectOpen,
		Client: models.ProjectClient{
			SubjectID: user.SubjectID,
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
			Avatar:    user.Avatar,
		},
	}

	if err := h.DB.Create(&project).Error; err != nil {
		log.Println("Error creating project:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to create project"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"project": project,
		"message": "Project created successfully",
	})
}

type UpdateProjectRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Budget      *int64    `json:"budget"`
	Timeline    *string   `json:"timeline"`
	Styles      *[]string `json:"styles"`
	Photos      *[]string `json:"photos"`
}

// Update edits project fields for the owning client or an admin. Status,
// designer and the client snapshot are not editable here; the lifecycle
// service owns the first two and the snapshot is immutable.
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Project not found"})
	}

	if !user.IsAdmin() && project.Client.SubjectID != user.SubjectID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Access denied"})
	}

	var req UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Budget != nil {
		if *req.Budget <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Budget must be positive"})
		}
		updates["budget"] = *req.Budget
	}
	if req.Timeline != nil {
		updates["timeline"] = strings.TrimSpace(*req.Timeline)
	}
	if req.Styles != nil {
		updates["styles"] = models.StringList(*req.Styles)
	}
	if req.Photos != nil {
		updates["photos"] = models.StringList(*req.Photos)
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&project).Updates(updates).Error; err != nil {
			log.Println("Error updating project:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to update project"})
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"project": project,
		"message": "Project updated successfully",
	})
}

// Complete moves an in_progress project to completed, client only.
func (h *ProjectHandler) Complete(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}

	project, err := h.Lifecycle.CompleteProject(c.Context(), projectID, user)
	switch {
	case err == nil:
	case errors.Is(err, lifecycle.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Project not found"})
	case errors.Is(err, lifecycle.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Only the project client can mark it as complete"})
	case errors.Is(err, lifecycle.ErrInvalidState):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Only in-progress projects can be completed"})
	default:
		log.Println("Error completing project:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to complete project"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"project": project,
		"message": "Project marked as complete",
	})
}

// Delete removes a project, admin only at the route level.
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}

	res := h.DB.Delete(&models.Project{}, "id = ?", projectID)
	if res.Error != nil {
		log.Println("Error deleting project:", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to delete project"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Project not found"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Project deleted successfully"})
}
