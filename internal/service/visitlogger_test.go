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

const lineUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148 Line/13.15.0"

func TestVisitLoggerPersistsClassifiedVisit(t *testing.T) {
	db := setupDB(t)
	friends := repository.NewFriendRepository(db)
	visits := repository.NewVisitRepository(db)
	ctx := context.Background()

	require.NoError(t, friends.Create(ctx, &model.Friend{Slug: "mook", Name: "Mook", Passcode: "1234"}))
	f, err := friends.GetBySlug(ctx, "mook")
	require.NoError(t, err)

	vl := NewVisitLogger(friends, visits, 16)
	stop := vl.Start(1)
	defer func() { _ = stop(context.Background()) }()

	vl.Enqueue("mook", "203.0.113.7", lineUA)

	require.Eventually(t, func() bool {
		cnt, _ := visits.CountByFriend(ctx, f.ID)
		return cnt == 1
	}, 2*time.Second, 10*time.Millisecond)

	logs, err := visits.ListByFriend(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "203.0.113.7", logs[0].IPAddress)
	assert.Equal(t, lineUA, logs[0].UserAgent)
	assert.Equal(t, "mobile", logs[0].DeviceType)
	assert.Equal(t, "Line", logs[0].Browser)
}

func TestVisitLoggerUnknownSlugDropsSilently(t *testing.T) {
	db := setupDB(t)
	friends := repository.NewFriendRepository(db)
	visits := repository.NewVisitRepository(db)

	vl := NewVisitLogger(friends, visits, 16)
	stop := vl.Start(1)

	// 不会 panic 也不会写任何记录
	vl.Enqueue("nonexistent-slug", "1.2.3.4", "Mozilla/5.0")
	require.NoError(t, stop(context.Background()))

	var cnt int64
	require.NoError(t, db.Model(&model.VisitLog{}).Count(&cnt).Error)
	assert.Zero(t, cnt)
}

func TestVisitLoggerAccumulatesRepeatVisits(t *testing.T) {
	db := setupDB(t)
	friends := repository.NewFriendRepository(db)
	visits := repository.NewVisitRepository(db)
	ctx := context.Background()

	require.NoError(t, friends.Create(ctx, &model.Friend{Slug: "mook", Name: "Mook", Passcode: "1234"}))
	f, _ := friends.GetBySlug(ctx, "mook")

	vl := NewVisitLogger(friends, visits, 16)
	stop := vl.Start(2)
	defer func() { _ = stop(context.Background()) }()

	// 重复访问不去重，每次一条
	for i := 0; i < 5; i++ {
		vl.Enqueue("mook", "203.0.113.7", lineUA)
	}
	require.Eventually(t, func() bool {
		cnt, _ := visits.CountByFriend(ctx, f.ID)
		return cnt == 5
	}, 2*time.Second, 10*time.Millisecond)
}

func TestVisitLoggerFullQueueDrops(t *testing.T) {
	db := setupDB(t)
	friends := repository.NewFriendRepository(db)
	visits := repository.NewVisitRepository(db)

	// 不启动 worker，队列容量 1：第二条被丢弃而不是阻塞
	vl := NewVisitLogger(friends, visits, 1)
	done := make(chan struct{})
	go func() {
		vl.Enqueue("a", "1.1.1.1", "ua")
		vl.Enqueue("b", "2.2.2.2", "ua")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on full queue")
	}
	assert.Equal(t, 1, vl.QueueLen())
}
