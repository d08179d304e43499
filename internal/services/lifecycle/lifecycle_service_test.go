package lifecycle

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hudumalink/hudumalink-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.DesignerProfile{},
		&models.Project{},
		&models.Proposal{},
	))
	return db
}

func seedClient(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := models.User{
		SubjectID: "sub_client_" + uuid.New().String(),
		Name:      "Amina Njoroge",
		Email:     uuid.New().String() + "@example.com",
		Roles:     models.StringList{string(models.RoleClient)},
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func seedDesigner(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	u := models.User{
		SubjectID: "sub_designer_" + uuid.New().String(),
		Name:      "Brian Otieno",
		Email:     uuid.New().String() + "@example.com",
		Roles:     models.StringList{string(models.RoleClient), string(models.RoleDesigner)},
	}
	require.NoError(t, db.Create(&u).Error)
	profile := models.DesignerProfile{
		UserID: u.ID,
		Status: models.DesignerApproved,
	}
	require.NoError(t, db.Create(&profile).Error)
	return &u
}

func seedProject(t *testing.T, db *gorm.DB, client *models.User, status models.ProjectStatus) *models.Project {
	t.Helper()
	p := models.Project{
		Title:       "Living room refresh",
		Description: "Full redesign of a 4x6m living room",
		Location:    "Nairobi",
		Budget:      250000,
		Timeline:    "6 weeks",
		Status:      status,
		Client: models.ProjectClient{
			SubjectID: client.SubjectID,
			Name:      client.Name,
			Email:     client.Email,
		},
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func seedProposal(t *testing.T, db *gorm.DB, project *models.Project, designer *models.User) *models.Proposal {
	t.Helper()
	pr := models.Proposal{
		ProjectID:  project.ID,
		DesignerID: designer.ID,
		Message:    "I can start next week",
		Price:      200000,
		Timeline:   "5 weeks",
		Status:     models.ProposalPending,
	}
	require.NoError(t, db.Create(&pr).Error)
	return &pr
}

func TestAcceptProposal(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	designer := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)
	proposal := seedProposal(t, db, project, designer)

	accepted, err := svc.AcceptProposal(context.Background(), proposal.ID)
	require.NoError(t, err)
	require.Equal(t, models.ProposalAccepted, accepted.Status)

	var got models.Project
	require.NoError(t, db.First(&got, "id = ?", project.ID).Error)
	require.Equal(t, models.ProjectInProgress, got.Status)
	require.NotNil(t, got.DesignerID)
	require.Equal(t, designer.ID, *got.DesignerID)
}

func TestAcceptProposalLeavesSiblingsPending(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	winner := seedDesigner(t, db)
	loser := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)
	winning := seedProposal(t, db, project, winner)
	sibling := seedProposal(t, db, project, loser)

	_, err := svc.AcceptProposal(context.Background(), winning.ID)
	require.NoError(t, err)

	var got models.Proposal
	require.NoError(t, db.First(&got, "id = ?", sibling.ID).Error)
	require.Equal(t, models.ProposalPending, got.Status)
}

func TestAcceptProposalNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	_, err := svc.AcceptProposal(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptProposalAlreadyDecided(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	designer := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)
	proposal := seedProposal(t, db, project, designer)

	require.NoError(t, db.Model(proposal).Update("status", models.ProposalRejected).Error)

	_, err := svc.AcceptProposal(context.Background(), proposal.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	var got models.Project
	require.NoError(t, db.First(&got, "id = ?", project.ID).Error)
	require.Equal(t, models.ProjectOpen, got.Status)
}

func TestAcceptProposalIntoCompletedProject(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	designer := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectCompleted)
	proposal := seedProposal(t, db, project, designer)

	_, err := svc.AcceptProposal(context.Background(), proposal.ID)
	require.ErrorIs(t, err, ErrInvalidState)

	var got models.Proposal
	require.NoError(t, db.First(&got, "id = ?", proposal.ID).Error)
	require.Equal(t, models.ProposalPending, got.Status)
}

func TestAcceptProposalRollsBackOnProjectWriteFailure(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	designer := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)
	proposal := seedProposal(t, db, project, designer)

	// fail the project write, after the proposal write has gone through
	require.NoError(t, db.Callback().Update().Before("gorm:update").
		Register("refuse_project_updates", func(tx *gorm.DB) {
			if tx.Statement.Table == "projects" {
				tx.AddError(errors.New("project write refused"))
			}
		}))

	_, err := svc.AcceptProposal(context.Background(), proposal.ID)
	require.Error(t, err)

	require.NoError(t, db.Callback().Update().Remove("refuse_project_updates"))

	// both writes rolled back as a unit
	var gotProposal models.Proposal
	require.NoError(t, db.First(&gotProposal, "id = ?", proposal.ID).Error)
	require.Equal(t, models.ProposalPending, gotProposal.Status)

	var gotProject models.Project
	require.NoError(t, db.First(&gotProject, "id = ?", project.ID).Error)
	require.Equal(t, models.ProjectOpen, gotProject.Status)
	require.Nil(t, gotProject.DesignerID)
}

func TestRejectProposal(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	designer := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)
	proposal := seedProposal(t, db, project, designer)

	rejected, err := svc.RejectProposal(context.Background(), proposal.ID, "  budget too high  ", client)
	require.NoError(t, err)
	require.Equal(t, models.ProposalRejected, rejected.Status)
	require.Equal(t, "budget too high", rejected.RejectionReason)

	var got models.Project
	require.NoError(t, db.First(&got, "id = ?", project.ID).Error)
	require.Equal(t, models.ProjectOpen, got.Status)
}

func TestRejectProposalNotOwner(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	stranger := seedClient(t, db)
	designer := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)
	proposal := seedProposal(t, db, project, designer)

	_, err := svc.RejectProposal(context.Background(), proposal.ID, "", stranger)
	require.ErrorIs(t, err, ErrForbidden)

	var got models.Proposal
	require.NoError(t, db.First(&got, "id = ?", proposal.ID).Error)
	require.Equal(t, models.ProposalPending, got.Status)
	require.Empty(t, got.RejectionReason)
}

func TestRejectProposalAlreadyDecided(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	designer := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)
	proposal := seedProposal(t, db, project, designer)

	_, err := svc.AcceptProposal(context.Background(), proposal.ID)
	require.NoError(t, err)

	_, err = svc.RejectProposal(context.Background(), proposal.ID, "", client)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestCompleteProject(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	designer := seedDesigner(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)
	proposal := seedProposal(t, db, project, designer)

	_, err := svc.AcceptProposal(context.Background(), proposal.ID)
	require.NoError(t, err)

	completed, err := svc.CompleteProject(context.Background(), project.ID, client)
	require.NoError(t, err)
	require.Equal(t, models.ProjectCompleted, completed.Status)

	var profile models.DesignerProfile
	require.NoError(t, db.First(&profile, "user_id = ?", designer.ID).Error)
	require.Equal(t, 1, profile.ProjectsCompleted)
}

func TestCompleteProjectNotOwner(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	stranger := seedClient(t, db)
	project := seedProject(t, db, client, models.ProjectInProgress)

	_, err := svc.CompleteProject(context.Background(), project.ID, stranger)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestCompleteProjectNotInProgress(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)

	client := seedClient(t, db)
	project := seedProject(t, db, client, models.ProjectOpen)

	_, err := svc.CompleteProject(context.Background(), project.ID, client)
	require.ErrorIs(t, err, ErrInvalidState)

	var got models.Project
	require.NoError(t, db.First(&got, "id = ?", project.ID).Error)
	require.Equal(t, models.ProjectOpen, got.Status)
}
