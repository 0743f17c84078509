package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatthan/lastletter/internal/model"
	"github.com/chatthan/lastletter/internal/repository"
)

func setupReplySvc(t *testing.T) (ReplyService, repository.FriendRepository, *miniredis.Miniredis) {
	t.Helper()
	db := setupDB(t)
	friends := repository.NewFriendRepository(db)
	replies := repository.NewReplyRepository(db)

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cache.Close() })

	return NewReplyService(replies, friends, cache, 10*time.Second), friends, mr
}

func TestReplyCreateAndPublicFeed(t *testing.T) {
	svc, friends, _ := setupReplySvc(t)
	ctx := context.Background()
	require.NoError(t, friends.Create(ctx, &model.Friend{Slug: "mook", Name: "Mook", Passcode: "1234"}))

	_, err := svc.Create(ctx, "mook", &ReplyInput{Content: "คิดถึงนะ", SenderName: "Mook"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "mook", &ReplyInput{Content: "secret", IsPrivate: true})
	require.NoError(t, err)

	feed, err := svc.PublicFeed(ctx, "mook")
	require.NoError(t, err)
	// 私密回信不进公开墙
	require.Len(t, feed, 1)
	assert.Equal(t, "คิดถึงนะ", feed[0].Content)

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestReplyCreateUnknownSlug(t *testing.T) {
	svc, _, _ := setupReplySvc(t)
	_, err := svc.Create(context.Background(), "nobody", &ReplyInput{Content: "hi"})
	assert.ErrorIs(t, err, ErrFriendNotFound)
}

func TestReplyUnreadCountCached(t *testing.T) {
	svc, friends, mr := setupReplySvc(t)
	ctx := context.Background()
	require.NoError(t, friends.Create(ctx, &model.Friend{Slug: "mook", Name: "Mook", Passcode: "1234"}))

	_, err := svc.Create(ctx, "mook", &ReplyInput{Content: "one"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "mook", &ReplyInput{Content: "two"})
	require.NoError(t, err)

	cnt, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)
	assert.True(t, mr.Exists("replies:unread_count"))

	// 缓存期内读到的是缓存值
	require.NoError(t, mr.Set("replies:unread_count", "99"))
	mr.SetTTL("replies:unread_count", 10*time.Second)
	cnt, err = svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 99, cnt)

	// TTL 过期后回源
	mr.FastForward(time.Minute)
	cnt, err = svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cnt)
}

func TestReplyMarkReadInvalidatesCache(t *testing.T) {
	svc, friends, mr := setupReplySvc(t)
	ctx := context.Background()
	require.NoError(t, friends.Create(ctx, &model.Friend{Slug: "mook", Name: "Mook", Passcode: "1234"}))

	r, err := svc.Create(ctx, "mook", &ReplyInput{Content: "one"})
	require.NoError(t, err)

	cnt, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	require.NoError(t, svc.MarkRead(ctx, r.ID))
	assert.False(t, mr.Exists("replies:unread_count"))

	cnt, err = svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestReplyServiceWithoutCache(t *testing.T) {
	db := setupDB(t)
	friends := repository.NewFriendRepository(db)
	replies := repository.NewReplyRepository(db)
	svc := NewReplyService(replies, friends, nil, 0)
	ctx := context.Background()

	require.NoError(t, friends.Create(ctx, &model.Friend{Slug: "mook", Name: "Mook", Passcode: "1234"}))
	_, err := svc.Create(ctx, "mook", &ReplyInput{Content: "hi"})
	require.NoError(t, err)

	cnt, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}
