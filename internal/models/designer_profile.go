package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DesignerStatus string

const (
	DesignerPending   DesignerStatus = "pending"
	DesignerApproved  DesignerStatus = "approved"
	DesignerRejected  DesignerStatus = "rejected"
	DesignerSuspended DesignerStatus = "suspended"
)

// Reference is a professional reference supplied with a designer application.
type Reference struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Relation string `json:"relation"`
}

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Pinterest string `json:"pinterest,omitempty"`
	Website   string `json:"website,omitempty"`
}

// DesignerProfile holds everything designer-specific: the application and its
// lifecycle status, admin-controlled trust flags, the public profile, and the
// aggregate metrics maintained by the rating service.
type DesignerProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Status          DesignerStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RejectionReason string         `gorm:"type:text" json:"rejection_reason,omitempty"`

	// Trust flags, admin-only. SuperVerified implies Verified.
	Verified      bool `gorm:"default:false" json:"verified"`
	SuperVerified bool `gorm:"default:false" json:"super_verified"`

	// Application data.
	IDNumber        string         `gorm:"type:varchar(30)" json:"id_number,omitempty"`
	PortfolioImages StringList     `gorm:"type:text" json:"portfolio_images"`
	Credentials     StringList     `gorm:"type:text" json:"credentials"`
	References      datatypes.JSON `json:"references,omitempty"` // []Reference

	// Public profile.
	Location      string         `gorm:"type:varchar(120)" json:"location"`
	About         string         `gorm:"type:text" json:"about"`
	CoverImage    string         `gorm:"type:text" json:"cover_image,omitempty"`
	Styles        StringList     `gorm:"type:text" json:"styles"`
	StartingPrice int64          `json:"starting_price"`
	ResponseTime  string         `gorm:"type:varchar(60)" json:"response_time,omitempty"`
	CalendlyLink  string         `gorm:"type:text" json:"calendly_link,omitempty"`
	VideoURL      string         `gorm:"type:text" json:"video_url,omitempty"`
	SocialLinks   datatypes.JSON `json:"social_links,omitempty"` // SocialLinks

	// Metrics, maintained by the rating service and the lifecycle service.
	Rating            float64 `gorm:"default:0" json:"rating"`
	ReviewCount       int     `gorm:"default:0" json:"review_count"`
	ProjectsCompleted int     `gorm:"default:0" json:"projects_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *DesignerProfile) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
