package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
)

// Proposal is a designer's bid on an open project. The (project, designer)
// pair is unique: a designer submits at most one proposal per project.
// pending -> accepted and pending -> rejected are both terminal.
type Proposal struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_proposals_project_designer;index" json:"project_id"`
	DesignerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_proposals_project_designer;index" json:"designer_id"`

	Message  string `gorm:"type:text;not null" json:"message"`
	Price    int64  `gorm:"not null" json:"price"`
	Timeline string `gorm:"not null" json:"timeline"`

	Status          ProposalStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Designer *User    `gorm:"foreignKey:DesignerID" json:"designer,omitempty"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
