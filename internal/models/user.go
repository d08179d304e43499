package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleClient   Role = "client"
	RoleDesigner Role = "designer"
	RoleAdmin    Role = "admin"
)

// User is the local account record. It is keyed by SubjectID, the stable
// identifier issued by the external identity provider; records are
// auto-provisioned on first successful token verification.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID string    `gorm:"uniqueIndex;not null" json:"subject_id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Avatar    string    `gorm:"type:text" json:"avatar,omitempty"`

	// Roles are non-exclusive; every user starts as a client.
	Roles StringList `gorm:"type:text;not null" json:"roles"`

	Banned    bool       `gorm:"default:false;index" json:"banned"`
	BanReason string     `gorm:"type:text" json:"ban_reason,omitempty"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// HAS ONE designer_profile (designer_profiles.user_id -> users.id),
	// present only once the user has applied to become a designer.
	DesignerProfile *DesignerProfile `gorm:"foreignKey:UserID;references:ID" json:"designer_profile,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

func (u *User) AddRole(role Role) {
	if !u.HasRole(role) {
		u.Roles = append(u.Roles, string(role))
	}
}

func (u *User) IsAdmin() bool { return u.HasRole(RoleAdmin) }
