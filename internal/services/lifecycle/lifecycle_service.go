package lifecycle

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
)

// Service owns the project/proposal state machine:
//
//	project: open -> in_progress -> completed
//	proposal: pending -> accepted | rejected (both terminal)
//
// Each transition runs inside a single transaction so the paired writes
// (proposal + project on accept, project + designer metrics on complete)
// commit or fail as a unit.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AcceptProposal marks the proposal accepted and moves its project to
// in_progress with the proposal's designer assigned. The project's other
// pending proposals are left untouched; clients reject them explicitly.
func (s *Service) AcceptProposal(ctx context.Context, proposalID uuid.UUID) (*models.Proposal, error) {
	var accepted models.Proposal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&proposal, "id = ?", proposalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if proposal.Status != models.ProposalPending {
			return ErrInvalidState
		}

		var project models.Project
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&project, "id = ?", proposal.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		// Completed is terminal; accepting into it would regress the project.
		if project.Status == models.ProjectCompleted {
			return ErrInvalidState
		}

		proposal.Status = models.ProposalAccepted
		if err := tx.Save(&proposal).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Project{}).
			Where("id = ?", project.ID).
			Updates(map[string]interface{}{
				"status":      models.ProjectInProgress,
				"designer_id": proposal.DesignerID,
			}).Error; err != nil {
			return err
		}

		accepted = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &accepted, nil
}

// RejectProposal marks a pending proposal rejected, optionally recording a
// reason. Only the owning client of the proposal's project may reject.
// Project state is not touched.
func (s *Service) RejectProposal(ctx context.Context, proposalID uuid.UUID, reason string, actor *models.User) (*models.Proposal, error) {
	var rejected models.Proposal

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var proposal models.Proposal
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&proposal, "id = ?", proposalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var project models.Project
		if err := tx.First(&project, "id = ?", proposal.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if project.Client.SubjectID != actor.SubjectID {
			return ErrForbidden
		}

		if proposal.Status != models.ProposalPending {
			return ErrInvalidState
		}

		proposal.Status = models.ProposalRejected
		if r := strings.TrimSpace(reason); r != "" {
			proposal.RejectionReason = r
		}
		if err := tx.Save(&proposal).Error; err != nil {
			return err
		}

		rejected = proposal
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rejected, nil
}

// CompleteProject moves an in_progress project to completed. Only the owning
// client may complete. The hired designer's completed-project counter is
// bumped in the same transaction.
func (s *Service) CompleteProject(ctx context.Context, projectID uuid.UUID, actor *models.User) (*models.Project, error) {
	var completed models.Project

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&project, "id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if project.Client.SubjectID != actor.SubjectID {
			return ErrForbidden
		}

		if project.Status != models.ProjectInProgress {
			return ErrInvalidState
		}

		project.Status = models.ProjectCompleted
		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		if project.DesignerID != nil {
			if err := tx.Model(&models.DesignerProfile{}).
				Where("user_id = ?", *project.DesignerID).
				UpdateColumn("projects_completed", gorm.Expr("projects_completed + 1")).Error; err != nil {
				return err
			}
		}

		completed = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &completed, nil
}
