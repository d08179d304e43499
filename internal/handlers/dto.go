package handlers

import (
	"time"

	"github.com/hudumalink/hudumalink-backend/internal/models"
)

// UserMini is the joined-in summary shape used wherever a proposal, review
// or message carries its counterpart's identity.
type UserMini struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Phone  string `json:"phone,omitempty"`
}

func toUserMini(u *models.User) *UserMini {
	if u == nil {
		return nil
	}
	return &UserMini{
		ID:     u.ID.String(),
		Name:   u.Name,
		Avatar: u.Avatar,
		Phone:  u.Phone,
	}
}

// ProjectMini carries the project summary fields joined into proposal
// listings.
type ProjectMini struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Budget      int64  `json:"budget"`
	Timeline    string `json:"timeline"`
	Status      string `json:"status"`
}

func toProjectMini(p *models.Project) *ProjectMini {
	if p == nil {
		return nil
	}
	return &ProjectMini{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		Timeline:    p.Timeline,
		Status:      string(p.Status),
	}
}

// MessageOut is the chat message shape shared by the websocket events and
// the HTTP history endpoint.
type MessageOut struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	SenderID  string    `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Sender    *UserMini `json:"sender,omitempty"`
}

func toMessageOut(m *models.Message) MessageOut {
	return MessageOut{
		ID:        m.ID.String(),
		ProjectID: m.ProjectID.String(),
		SenderID:  m.SenderID.String(),
		Message:   m.Body,
		CreatedAt: m.CreatedAt,
		Sender:    toUserMini(m.Sender),
	}
}
