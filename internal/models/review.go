package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a client's rating of a completed project's designer. Exactly one
// review may exist per project, enforced by the unique index on ProjectID.
type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"project_id"`
	ClientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"client_id"`
	DesignerID uuid.UUID `gorm:"type:uuid;not null;index" json:"designer_id"`

	Rating  int    `gorm:"not null" json:"rating"` // 1-5
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project  *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Client   *User    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Designer *User    `gorm:"foreignKey:DesignerID" json:"designer,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}
