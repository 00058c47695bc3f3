// Copyright (c) 2026 StaffHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package accesslog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/staffhub/internal/core/accesslog"
)

type fakeAccessLogRepo struct {
	entries    []*accesslog.Entry
	failAppend bool
}

func (r *fakeAccessLogRepo) Append(_ context.Context, e *accesslog.Entry) error {
	if r.failAppend {
		return errors.New("storage down")
	}
	copied := *e
	r.entries = append(r.entries, &copied)
	return nil
}

func (r *fakeAccessLogRepo) List(_ context.Context, f accesslog.Filter, _, _ int) ([]*accesslog.Entry, int, error) {
	result := []*accesslog.Entry{}
	for _, entry := range r.entries {
		if f.ActorID != 0 && (entry.ActorID == nil || *entry.ActorID != f.ActorID) {
			continue
		}
		if f.Action != "" && entry.Action != f.Action {
			continue
		}
		copied := *entry
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func newAccessLogService(repo *fakeAccessLogRepo) *accesslog.Service {
	return accesslog.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestRecord verifies entry shaping, anonymous actors, and that storage
failures are dropped rather than surfaced.
*/
func TestRecord(t *testing.T) {
	repo := &fakeAccessLogRepo{}
	service := newAccessLogService(repo)

	service.Record(context.Background(), 7, "auth.login", "user@staffhub.app", "10.0.0.1", "curl/8")
	service.Record(context.Background(), 0, "auth.logout", "", "", "")

	require.Len(t, repo.entries, 2)

	first := repo.entries[0]
	require.NotNil(t, first.ActorID)
	assert.Equal(t, 7, *first.ActorID)
	assert.Equal(t, "auth.login", first.Action)
	assert.Equal(t, "10.0.0.1", first.IPAddress)

	assert.Nil(t, repo.entries[1].ActorID, "actor 0 is recorded as anonymous")

	// Failing storage must not panic or propagate.
	repo.failAppend = true
	service.Record(context.Background(), 7, "auth.login", "", "", "")
	assert.Len(t, repo.entries, 2)
}

/*
TestList covers the actor and action filters.
*/
func TestList(t *testing.T) {
	repo := &fakeAccessLogRepo{}
	service := newAccessLogService(repo)

	service.Record(context.Background(), 1, "auth.login", "", "", "")
	service.Record(context.Background(), 1, "auth.logout", "", "", "")
	service.Record(context.Background(), 2, "auth.login", "", "", "")

	byActor, total, err := service.List(context.Background(), accesslog.Filter{ActorID: 1}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, byActor, 2)

	byAction, total, err := service.List(context.Background(), accesslog.Filter{Action: "auth.login"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, byAction, 2)

	both, total, err := service.List(context.Background(), accesslog.Filter{ActorID: 2, Action: "auth.login"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, both, 1)
}
