package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/hudumalink/hudumalink-backend/internal/models"
)

func TestAdminStats(t *testing.T) {
	db := newTestDB(t)
	client := createUser(t, db, models.RoleClient)
	designer := createUser(t, db, models.RoleClient, models.RoleDesigner)
	require.NoError(t, db.Create(&models.DesignerProfile{
		UserID:   designer.ID,
		Status:   models.DesignerApproved,
		Verified: true,
	}).Error)
	createProject(t, db, client, models.ProjectOpen)
	createProject(t, db, client, models.ProjectCompleted)

	h := NewAdminHandler(db)
	app := fiber.New()
	app.Get("/api/admin/stats", h.Stats)

	status, out := doJSON(t, app, "GET", "/api/admin/stats", nil)
	require.Equal(t, fiber.StatusOK, status)

	stats := out["stats"].(map[string]interface{})
	users := stats["users"].(map[string]interface{})
	require.EqualValues(t, 2, users["total"])
	require.EqualValues(t, 2, users["clients"])
	require.EqualValues(t, 1, users["designers"])
	require.EqualValues(t, 1, users["approvedDesigners"])
	require.EqualValues(t, 1, users["verifiedDesigners"])

	projects := stats["projects"].(map[string]interface{})
	require.EqualValues(t, 2, projects["total"])
	require.EqualValues(t, 1, projects["open"])
	require.EqualValues(t, 1, projects["completed"])
}

func TestAdminStatsQueryFault(t *testing.T) {
	// designer_profiles dropped: the profile counts must surface the fault
	// instead of reporting zeros
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.DesignerProfile{}))

	h := NewAdminHandler(db)
	app := fiber.New()
	app.Get("/api/admin/stats", h.Stats)

	status, out := doJSON(t, app, "GET", "/api/admin/stats", nil)
	require.Equal(t, fiber.StatusInternalServerError, status)
	require.Equal(t, false, out["success"])
}
