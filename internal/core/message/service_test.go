// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package message_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffhub/internal/core/message"
	"github.com/taibuivan/staffhub/internal/platform/apperr"
)

type fakeMessageRepo struct {
	messages map[int]*message.Message
	nextID   int
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[int]*message.Message{}, nextID: 1}
}

func (r *fakeMessageRepo) Create(_ context.Context, m *message.Message) error {
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = time.Now()
	copied := *m
	r.messages[m.ID] = &copied
	return nil
}

func (r *fakeMessageRepo) Get(_ context.Context, id int) (*message.Message, error) {
	m, ok := r.messages[id]
	if !ok {
		return nil, apperr.NotFound("Message")
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMessageRepo) ListInbox(_ context.Context, userID, _, _ int) ([]*message.Message, int, error) {
	result := []*message.Message{}
	for _, m := range r.messages {
		if m.RecipientID == userID {
			copied := *m
			result = append(result, &copied)
		}
	}
	return result, len(result), nil
}

func (r *fakeMessageRepo) ListSent(_ context.Context, userID, _, _ int) ([]*message.Message, int, error) {
	result := []*message.Message{}
	for _, m := range r.messages {
		if m.SenderID == userID {
			copied := *m
			result = append(result, &copied)
		}
	}
	return result, len(result), nil
}

// MarkRead mirrors the storage guard: the row only matches for its recipient,
// and re-marking an already-read message still matches.
func (r *fakeMessageRepo) MarkRead(_ context.Context, id, recipientID int) (bool, error) {
	m, ok := r.messages[id]
	if !ok || m.RecipientID != recipientID {
		return false, nil
	}
	m.Read = true
	return true, nil
}

func newMessageService() (*message.Service, *fakeMessageRepo) {
	repo := newFakeMessageRepo()
	return message.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

/*
TestSend verifies validation and persisted fields.
*/
func TestSend(t *testing.T) {
	service, _ := newMessageService()

	sent, err := service.Send(context.Background(), 1, message.SendInput{
		RecipientID: 2,
		Subject:     "Standup",
		Body:        "Moved to 10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, sent.SenderID)
	assert.Equal(t, 2, sent.RecipientID)
	assert.False(t, sent.Read)

	tests := []struct {
		name  string
		input message.SendInput
	}{
		{"missing_recipient", message.SendInput{Body: "hello"}},
		{"missing_body", message.SendInput{RecipientID: 2}},
		{"oversized_body", message.SendInput{RecipientID: 2, Body: strings.Repeat("x", 4001)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Send(context.Background(), 1, tt.input)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
		})
	}
}

/*
TestInboxAndSent verify the two mailbox views are scoped per user.
*/
func TestInboxAndSent(t *testing.T) {
	service, _ := newMessageService()

	_, err := service.Send(context.Background(), 1, message.SendInput{RecipientID: 2, Body: "to two"})
	require.NoError(t, err)
	_, err = service.Send(context.Background(), 2, message.SendInput{RecipientID: 1, Body: "to one"})
	require.NoError(t, err)

	inbox, total, err := service.Inbox(context.Background(), 2, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, inbox, 1)
	assert.Equal(t, "to two", inbox[0].Body)

	sent, total, err := service.Sent(context.Background(), 2, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, sent, 1)
	assert.Equal(t, "to one", sent[0].Body)
}

/*
TestMarkRead verifies only the recipient can mark a message, the operation is
idempotent, and everyone else sees NotFound.
*/
func TestMarkRead(t *testing.T) {
	service, _ := newMessageService()

	sent, err := service.Send(context.Background(), 1, message.SendInput{RecipientID: 2, Body: "ping"})
	require.NoError(t, err)

	// The sender cannot mark their own outgoing message.
	_, err = service.MarkRead(context.Background(), sent.ID, 1)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	marked, err := service.MarkRead(context.Background(), sent.ID, 2)
	require.NoError(t, err)
	assert.True(t, marked.Read)

	// Re-marking stays a success.
	marked, err = service.MarkRead(context.Background(), sent.ID, 2)
	require.NoError(t, err)
	assert.True(t, marked.Read)

	// Unknown ids share the NotFound outcome.
	_, err = service.MarkRead(context.Background(), 999, 2)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
