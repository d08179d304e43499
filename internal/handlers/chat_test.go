package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hudumalink/hudumalink-backend/internal/models"
	"github.com/hudumalink/hudumalink-backend/internal/realtime"
)

func newChatClient(userID uuid.UUID) *realtime.Client {
	return &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Send:   make(chan []byte, 8),
	}
}

func recvPayload(t *testing.T, c *realtime.Client) []byte {
	t.Helper()
	select {
	case msg := <-c.Send:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func TestSendMessagePersistsAndBroadcasts(t *testing.T) {
	db := newTestDB(t)
	client := createUser(t, db, models.RoleClient)
	project := createProject(t, db, client, models.ProjectInProgress)

	hub := realtime.NewHub()
	go hub.Run()
	h := NewChatHandler(db, hub, nil)

	cl := newChatClient(client.ID)
	hub.RegisterClient(cl)
	hub.JoinRoom(project.ID.String(), cl)

	h.sendMessage(cl, socketEvent{
		Type:      "send_message",
		ProjectID: project.ID.String(),
		Message:   "  hello there  ",
	})

	var payload struct {
		Type    string     `json:"type"`
		Message MessageOut `json:"message"`
	}
	require.NoError(t, json.Unmarshal(recvPayload(t, cl), &payload))
	require.Equal(t, "new_message", payload.Type)
	require.Equal(t, "hello there", payload.Message.Message)
	require.NotNil(t, payload.Message.Sender)
	require.Equal(t, client.Name, payload.Message.Sender.Name)

	var count int64
	db.Model(&models.Message{}).Where("project_id = ?", project.ID).Count(&count)
	require.EqualValues(t, 1, count)
}

func TestSendMessageRejectsWhitespace(t *testing.T) {
	db := newTestDB(t)
	client := createUser(t, db, models.RoleClient)
	project := createProject(t, db, client, models.ProjectInProgress)

	hub := realtime.NewHub()
	go hub.Run()
	h := NewChatHandler(db, hub, nil)

	cl := newChatClient(client.ID)
	hub.RegisterClient(cl)
	hub.JoinRoom(project.ID.String(), cl)

	h.sendMessage(cl, socketEvent{
		Type:      "send_message",
		ProjectID: project.ID.String(),
		Message:   "   \n\t ",
	})

	var count int64
	db.Model(&models.Message{}).Count(&count)
	require.Zero(t, count)

	select {
	case <-cl.Send:
		t.Fatal("empty message was broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLoadMessagesAscendingCapped(t *testing.T) {
	db := newTestDB(t)
	client := createUser(t, db, models.RoleClient)
	project := createProject(t, db, client, models.ProjectInProgress)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Message{
			ProjectID: project.ID,
			SenderID:  client.ID,
			Body:      []string{"first", "second", "third"}[i],
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	hub := realtime.NewHub()
	h := NewChatHandler(db, hub, nil)

	cl := newChatClient(client.ID)
	h.loadMessages(cl, project.ID.String())

	var payload struct {
		Type     string       `json:"type"`
		Messages []MessageOut `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(recvPayload(t, cl), &payload))
	require.Equal(t, "messages_loaded", payload.Type)
	require.Len(t, payload.Messages, 3)
	require.Equal(t, "first", payload.Messages[0].Message)
	require.Equal(t, "third", payload.Messages[2].Message)
}
