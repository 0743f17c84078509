package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatthan/lastletter/internal/model"
	"github.com/chatthan/lastletter/internal/repository"
)

func TestSessionManagerOpenGetClose(t *testing.T) {
	db := setupDB(t)
	friends := repository.NewFriendRepository(db)
	ctx := context.Background()

	unlock := time.Now().Add(-time.Hour)
	require.NoError(t, friends.Create(ctx, &model.Friend{
		Slug: "mook", Name: "Mook", Passcode: "1234", UnlockDate: &unlock,
	}))

	access := NewAccessService(friends, time.Date(2026, 2, 20, 14, 0, 0, 0, time.UTC))
	mgr := NewSessionManager(access, time.Minute)
	defer mgr.Shutdown()

	s, err := mgr.Open(ctx, "mook")
	require.NoError(t, err)
	assert.Equal(t, PhaseAuth, s.Phase())

	got, err := mgr.Get(s.Token)
	require.NoError(t, err)
	assert.Same(t, s, got)

	// 会话内完整走一遍口令流程
	ok, err := got.SubmitPasscode(ctx, "1234")
	require.NoError(t, err)
	assert.True(t, ok)
	f, _ := friends.GetBySlug(ctx, "mook")
	assert.True(t, f.IsViewed)

	mgr.Close(s.Token)
	_, err = mgr.Get(s.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionManagerUnknownSlug(t *testing.T) {
	db := setupDB(t)
	access := NewAccessService(repository.NewFriendRepository(db), time.Now())
	mgr := NewSessionManager(access, time.Minute)
	defer mgr.Shutdown()

	_, err := mgr.Open(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrFriendNotFound)
}
