// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffhub/internal/core/notification"
	"github.com/taibuivan/staffhub/internal/platform/apperr"
)

type fakeNotificationRepo struct {
	notifications map[int]*notification.Notification
	nextID        int
	failCreate    bool
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: map[int]*notification.Notification{}, nextID: 1}
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	if r.failCreate {
		return errors.New("storage down")
	}
	n.ID = r.nextID
	r.nextID++
	n.CreatedAt = time.Now()
	copied := *n
	r.notifications[n.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) ListForUser(_ context.Context, userID, _, _ int) ([]*notification.Notification, int, error) {
	result := []*notification.Notification{}
	for _, n := range r.notifications {
		if n.UserID == userID {
			copied := *n
			result = append(result, &copied)
		}
	}
	return result, len(result), nil
}

func (r *fakeNotificationRepo) Acknowledge(_ context.Context, id, userID int) (bool, error) {
	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.Acknowledged = true
	return true, nil
}

// fakeDirectory maps employee ids to owner accounts; absent entries resolve
// to an unclaimed record, negative markers to a lookup failure.
type fakeDirectory struct {
	owners map[int]*int
	err    error
}

func (d *fakeDirectory) OwnerUserID(_ context.Context, employeeID int) (*int, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.owners[employeeID], nil
}

func newNotificationService(repo *fakeNotificationRepo, directory *fakeDirectory) *notification.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return notification.NewService(repo, directory, nil, logger)
}

/*
TestNotify creates a notification even with no broker configured.
*/
func TestNotify(t *testing.T) {
	repo := newFakeNotificationRepo()
	service := newNotificationService(repo, &fakeDirectory{})

	require.NoError(t, service.Notify(context.Background(), 5, "leave.approved", "Approved."))

	list, total, err := service.ListForUser(context.Background(), 5, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, "leave.approved", list[0].Kind)
	assert.False(t, list[0].Acknowledged)
}

/*
TestNotifyEmployee resolves the owner account and never propagates failures.
*/
func TestNotifyEmployee(t *testing.T) {
	owner := 7
	repo := newFakeNotificationRepo()
	directory := &fakeDirectory{owners: map[int]*int{3: &owner}}
	service := newNotificationService(repo, directory)

	// Claimed record: the owner gets the notification.
	service.NotifyEmployee(context.Background(), 3, "leave.rejected", "Rejected.")
	_, total, err := service.ListForUser(context.Background(), 7, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// Unclaimed record: skipped silently.
	service.NotifyEmployee(context.Background(), 4, "leave.approved", "Approved.")
	assert.Len(t, repo.notifications, 1)

	// Lookup failure: swallowed.
	failing := newNotificationService(repo, &fakeDirectory{err: errors.New("db down")})
	failing.NotifyEmployee(context.Background(), 3, "leave.approved", "Approved.")
	assert.Len(t, repo.notifications, 1)

	// Storage failure: swallowed too.
	repo.failCreate = true
	service.NotifyEmployee(context.Background(), 3, "leave.approved", "Approved.")
	assert.Len(t, repo.notifications, 1)
}

/*
TestAcknowledge enforces owner-only acknowledgement.
*/
func TestAcknowledge(t *testing.T) {
	repo := newFakeNotificationRepo()
	service := newNotificationService(repo, &fakeDirectory{})

	require.NoError(t, service.Notify(context.Background(), 5, "system", "Hello."))

	err := service.Acknowledge(context.Background(), 1, 6)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	require.NoError(t, service.Acknowledge(context.Background(), 1, 5))

	list, _, err := service.ListForUser(context.Background(), 5, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Acknowledged)

	err = service.Acknowledge(context.Background(), 99, 5)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
