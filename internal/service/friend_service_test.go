package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatthan/lastletter/internal/model"
	"github.com/chatthan/lastletter/internal/repository"
)

func setupFriendSvc(t *testing.T) (FriendService, repository.FriendRepository, repository.VisitRepository) {
	t.Helper()
	db := setupDB(t)
	friends := repository.NewFriendRepository(db)
	visits := repository.NewVisitRepository(db)
	return NewFriendService(friends, visits, "https://letters.example.com/"), friends, visits
}

func TestFriendCreateValidatesSlug(t *testing.T) {
	svc, _, _ := setupFriendSvc(t)
	ctx := context.Background()

	f, err := svc.Create(ctx, &FriendInput{Name: "Mook", Slug: "  MOOK  ", Passcode: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "mook", f.Slug)

	_, err = svc.Create(ctx, &FriendInput{Name: "Other", Slug: "mook", Passcode: "0000"})
	assert.ErrorIs(t, err, ErrSlugTaken)

	_, err = svc.Create(ctx, &FriendInput{Name: "Bad", Slug: "a/b", Passcode: "0000"})
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

func TestFriendListWithStatusAndStats(t *testing.T) {
	svc, friends, visits := setupFriendSvc(t)
	ctx := context.Background()

	viewed, err := svc.Create(ctx, &FriendInput{Name: "A", Slug: "a", Passcode: "1111"})
	require.NoError(t, err)
	scanned, err := svc.Create(ctx, &FriendInput{Name: "B", Slug: "b", Passcode: "2222"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &FriendInput{Name: "C", Slug: "c", Passcode: "3333"})
	require.NoError(t, err)

	require.NoError(t, friends.SetViewed(ctx, viewed.Slug))
	for i := 0; i < 3; i++ {
		require.NoError(t, visits.Insert(ctx, &model.VisitLog{FriendID: scanned.ID}))
	}
	// viewed 优先于访问数
	require.NoError(t, visits.Insert(ctx, &model.VisitLog{FriendID: viewed.ID}))

	rows, err := svc.ListWithStatus(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	byID := map[string]*FriendWithStatus{}
	for _, r := range rows {
		byID[r.ID] = r
	}
	assert.Equal(t, model.StatusViewed, byID[viewed.ID].Status)
	assert.Equal(t, model.StatusScanned, byID[scanned.ID].Status)
	assert.EqualValues(t, 3, byID[scanned.ID].VisitCount)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{Total: 3, Viewed: 1, Scanned: 1, Locked: 1}, stats)
}

func TestFriendUpdateKeepsSlug(t *testing.T) {
	svc, _, _ := setupFriendSvc(t)
	ctx := context.Background()

	f, err := svc.Create(ctx, &FriendInput{Name: "Mook", Slug: "mook", Passcode: "1234"})
	require.NoError(t, err)

	unlock := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	got, err := svc.Update(ctx, f.ID, &FriendInput{
		Name: "Mook P.", Slug: "other", Passcode: "5678", UnlockDate: &unlock,
	})
	require.NoError(t, err)
	assert.Equal(t, "mook", got.Slug)
	assert.Equal(t, "Mook P.", got.Name)
	assert.Equal(t, "5678", got.Passcode)
	require.NotNil(t, got.UnlockDate)
	assert.True(t, unlock.Equal(*got.UnlockDate))
}

func TestFriendShareQR(t *testing.T) {
	svc, _, _ := setupFriendSvc(t)
	ctx := context.Background()

	f, err := svc.Create(ctx, &FriendInput{Name: "Mook", Slug: "mook", Passcode: "1234"})
	require.NoError(t, err)

	png, err := svc.ShareQR(ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = svc.ShareQR(ctx, "missing-id")
	assert.ErrorIs(t, err, ErrFriendNotFound)
}
