package handlers

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/middleware"
	"github.com/hudumalink/hudumalink-backend/internal/models"
	"github.com/hudumalink/hudumalink-backend/internal/realtime"
)

// historyLimit caps how much chat history a room load returns.
const historyLimit = 50

type ChatHandler struct {
	DB  *gorm.DB
	Hub *realtime.Hub
	RDB *redis.Client
}

func NewChatHandler(db *gorm.DB, hub *realtime.Hub, rdb *redis.Client) *ChatHandler {
	return &ChatHandler{DB: db, Hub: hub, RDB: rdb}
}

// socketEvent is the envelope for every client-sent websocket frame.
type socketEvent struct {
	Type      string `json:"type"`
	ProjectID string `json:"projectId"`
	SenderID  string `json:"senderId"`
	Message   string `json:"message"`
}

// WebSocketHandler runs one chat connection: join project rooms, replay
// history, relay new messages.
func (h *ChatHandler) WebSocketHandler(c *websocket.Conn) {
	userID := c.Query("user_id")
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		log.Println("websocket: invalid user_id:", userID)
		c.Close()
		return
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userUUID,
		Conn:   realtime.NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer func() {
		h.Hub.UnregisterClient(client)
		log.Printf("websocket: user %s disconnected", userID)
	}()

	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("websocket write error:", err)
				return
			}
		}
	}()

	for {
		var evt socketEvent
		if err := c.ReadJSON(&evt); err != nil {
			break
		}

		switch evt.Type {
		case "join_project":
			h.Hub.JoinRoom(evt.ProjectID, client)

		case "load_messages":
			h.loadMessages(client, evt.ProjectID)

		case "send_message":
			h.sendMessage(client, evt)

		case "pong":
			// keepalive, nothing to do
		}
	}
}

// loadMessages replies to one client with the room's recent history,
// ascending by creation time.
func (h *ChatHandler) loadMessages(client *realtime.Client, projectID string) {
	projectUUID, err := uuid.Parse(projectID)
	if err != nil {
		return
	}

	var messages []models.Message
	if err := h.DB.
		Preload("Sender").
		Where("project_id = ?", projectUUID).
		Order("created_at DESC").
		Limit(historyLimit).
		Find(&messages).Error; err != nil {
		log.Println("load messages error:", err)
		return
	}

	// fetched newest-first; deliver oldest-first
	out := make([]MessageOut, len(messages))
	for i := range messages {
		out[len(messages)-1-i] = toMessageOut(&messages[i])
	}

	h.Hub.SendToClient(client, fiber.Map{
		"type":     "messages_loaded",
		"messages": out,
	})
}

// sendMessage persists a chat line and fans it out to the project room.
// Empty and whitespace-only bodies are dropped.
func (h *ChatHandler) sendMessage(client *realtime.Client, evt socketEvent) {
	body := strings.TrimSpace(evt.Message)
	if body == "" {
		return
	}

	projectUUID, err := uuid.Parse(evt.ProjectID)
	if err != nil {
		return
	}

	senderUUID := client.UserID
	if evt.SenderID != "" {
		if parsed, err := uuid.Parse(evt.SenderID); err == nil {
			senderUUID = parsed
		}
	}

	msg := models.Message{
		ProjectID: projectUUID,
		SenderID:  senderUUID,
		Body:      body,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		log.Println("send message error:", err)
		return
	}

	if err := h.DB.Preload("Sender").First(&msg, "id = ?", msg.ID).Error; err != nil {
		log.Println("reload message error:", err)
	}

	out := toMessageOut(&msg)
	h.Hub.SendToRoom(evt.ProjectID, fiber.Map{
		"type":    "new_message",
		"message": out,
	})

	// Out-of-band notification stream for push/consumer services.
	if h.RDB != nil {
		payload, _ := json.Marshal(out)
		h.RDB.Publish(context.Background(), "notifications:project:"+evt.ProjectID, payload)
	}
}

// History is the HTTP fallback for clients without a socket: the same
// capped, ascending message list, restricted to project participants.
func (h *ChatHandler) History(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Unauthorized"})
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid project ID"})
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Project not found"})
	}

	isClient := project.Client.SubjectID == user.SubjectID
	isDesigner := project.DesignerID != nil && *project.DesignerID == user.ID
	if !user.IsAdmin() && !isClient && !isDesigner {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Access denied"})
	}

	var messages []models.Message
	if err := h.DB.
		Preload("Sender").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(historyLimit).
		Find(&messages).Error; err != nil {
		log.Println("Error fetching messages:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Failed to fetch messages"})
	}

	out := make([]MessageOut, len(messages))
	for i := range messages {
		out[len(messages)-1-i] = toMessageOut(&messages[i])
	}

	return c.JSON(fiber.Map{"success": true, "messages": out})
}
