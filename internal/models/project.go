package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectOpen       ProjectStatus = "open"
	ProjectInProgress ProjectStatus = "in_progress"
	ProjectCompleted  ProjectStatus = "completed"
)

// ProjectClient is the client snapshot embedded in a project at creation
// time. It is a point-in-time copy for join-free reads; later edits to the
// user's profile do not flow back into it. SubjectID is immutable.
type ProjectClient struct {
	SubjectID string `gorm:"column:subject_id;not null;index" json:"subject_id"`
	Name      string `gorm:"column:name;not null" json:"name"`
	Email     string `gorm:"column:email;not null" json:"email"`
	Phone     string `gorm:"column:phone" json:"phone"`
	Avatar    string `gorm:"column:avatar" json:"avatar,omitempty"`
}

// Project is a client's posted job. Status only moves forward:
// open -> in_progress -> completed. DesignerID is null exactly while the
// project is open; the lifecycle service sets it when a proposal is accepted.
type Project struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Location    string     `gorm:"not null" json:"location"`
	Budget      int64      `gorm:"not null" json:"budget"` // minor currency units
	Timeline    string     `gorm:"not null" json:"timeline"`
	Styles      StringList `gorm:"type:text" json:"styles"`
	Photos      StringList `gorm:"type:text" json:"photos"`

	Client ProjectClient `gorm:"embedded;embeddedPrefix:client_" json:"client"`

	DesignerID *uuid.UUID    `gorm:"type:uuid;index" json:"designer_id,omitempty"`
	Status     ProjectStatus `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Designer *User `gorm:"foreignKey:DesignerID" json:"designer,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
