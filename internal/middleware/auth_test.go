package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hudumalink/hudumalink-backend/internal/identity"
	"github.com/hudumalink/hudumalink-backend/internal/models"
)

// fakeProvider stands in for the hosted identity service.
type fakeProvider struct {
	subjects map[string]string           // token -> subject
	profiles map[string]identity.Profile // subject -> profile
	fetchErr error
}

func (f *fakeProvider) Verify(ctx context.Context, token string) (string, error) {
	sub, ok := f.subjects[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return sub, nil
}

func (f *fakeProvider) Fetch(ctx context.Context, subjectID string) (*identity.Profile, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	p, ok := f.profiles[subjectID]
	if !ok {
		return nil, errors.New("subject not found")
	}
	return &p, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.DesignerProfile{}))
	return db
}

func newApp(db *gorm.DB, provider identity.Provider, extra ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append([]fiber.Handler{RequireAuth(db, provider)}, extra...)
	chain = append(chain, func(c *fiber.Ctx) error {
		user, _ := CurrentUser(c)
		return c.JSON(fiber.Map{"success": true, "subject": user.SubjectID})
	})
	app.Get("/protected", chain...)
	return app
}

func TestRequireAuthNoHeader(t *testing.T) {
	db := newTestDB(t)
	app := newApp(db, &fakeProvider{})

	req := httptest.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	db := newTestDB(t)
	app := newApp(db, &fakeProvider{subjects: map[string]string{}})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuthProvisionsFirstTimer(t *testing.T) {
	db := newTestDB(t)
	provider := &fakeProvider{
		subjects: map[string]string{"tok_1": "sub_abc"},
		profiles: map[string]identity.Profile{
			"sub_abc": {SubjectID: "sub_abc", Name: "Grace Akinyi", Email: "grace@example.com"},
		},
	}
	app := newApp(db, provider)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok_1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var user models.User
	require.NoError(t, db.First(&user, "subject_id = ?", "sub_abc").Error)
	require.Equal(t, "Grace Akinyi", user.Name)
	require.Equal(t, models.StringList{"client"}, user.Roles)
}

func TestRequireAuthProvisioningFetchFails(t *testing.T) {
	db := newTestDB(t)
	provider := &fakeProvider{
		subjects: map[string]string{"tok_1": "sub_abc"},
		fetchErr: errors.New("provider down"),
	}
	app := newApp(db, provider)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok_1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var count int64
	db.Model(&models.User{}).Count(&count)
	require.Zero(t, count)
}

func TestRequireAuthExistingUser(t *testing.T) {
	db := newTestDB(t)
	existing := models.User{
		SubjectID: "sub_abc",
		Name:      "Grace Akinyi",
		Email:     "grace@example.com",
		Roles:     models.StringList{"client", "designer"},
	}
	require.NoError(t, db.Create(&existing).Error)

	// no Fetch needed once the record exists
	provider := &fakeProvider{
		subjects: map[string]string{"tok_1": "sub_abc"},
		fetchErr: errors.New("should not be called"),
	}
	app := newApp(db, provider)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok_1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAuthBannedUser(t *testing.T) {
	db := newTestDB(t)
	banned := models.User{
		SubjectID: "sub_banned",
		Name:      "Bad Actor",
		Email:     "bad@example.com",
		Roles:     models.StringList{"client"},
		Banned:    true,
	}
	require.NoError(t, db.Create(&banned).Error)

	provider := &fakeProvider{subjects: map[string]string{"tok_b": "sub_banned"}}
	app := newApp(db, provider)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok_b")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	db := newTestDB(t)
	client := models.User{
		SubjectID: "sub_client",
		Name:      "Just A Client",
		Email:     "client@example.com",
		Roles:     models.StringList{"client"},
	}
	require.NoError(t, db.Create(&client).Error)

	provider := &fakeProvider{subjects: map[string]string{"tok_c": "sub_client"}}
	app := newApp(db, provider, RequireRole(models.RoleDesigner))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok_c")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleAllows(t *testing.T) {
	db := newTestDB(t)
	designer := models.User{
		SubjectID: "sub_designer",
		Name:      "Working Designer",
		Email:     "designer@example.com",
		Roles:     models.StringList{"client", "designer"},
	}
	require.NoError(t, db.Create(&designer).Error)

	provider := &fakeProvider{subjects: map[string]string{"tok_d": "sub_designer"}}
	app := newApp(db, provider, RequireRole(models.RoleDesigner))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok_d")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
