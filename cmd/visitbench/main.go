package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/chatthan/lastletter/config"
	"github.com/chatthan/lastletter/internal/model"
	"github.com/chatthan/lastletter/internal/repository"
	"github.com/chatthan/lastletter/internal/service"
	"github.com/chatthan/lastletter/pkg/database"
	"github.com/chatthan/lastletter/pkg/logger"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

const benchUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 16_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148 Line/13.15.0"

// 压测访问日志管线：入队延迟（调用方感知） vs 落地延迟（真实写库）
func main() {
	cfg := must(config.Load())
	_ = logger.Init("warn")
	db := must(database.InitDB(cfg))

	friendRepo := repository.NewFriendRepository(db)
	visitRepo := repository.NewVisitRepository(db)

	N := 10000
	if s := os.Getenv("N"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 { N = n }
	}
	CONC := 4
	if s := os.Getenv("CONC"); s != "" {
		if c, err := strconv.Atoi(s); err == nil && c > 0 { CONC = c }
	}
	WORKERS := 4
	if s := os.Getenv("WORKERS"); s != "" {
		if w, err := strconv.Atoi(s); err == nil && w > 0 { WORKERS = w }
	}

	ctx := context.Background()

	// seed friends
	const friends = 100
	slugs := make([]string, friends)
	for i := 0; i < friends; i++ {
		id := uuid.New().String()
		slugs[i] = "bench-" + id[:8]
		_ = friendRepo.Create(ctx, &model.Friend{
			Slug:     slugs[i],
			Name:     "bench " + id[:8],
			Passcode: "0000",
		})
	}

	vl := service.NewVisitLogger(friendRepo, visitRepo, N)
	stop := vl.Start(WORKERS)

	// collect landing latencies
	landRecs := make([]time.Duration, 0, N)
	doneLand := make(chan struct{})
	go func() {
		timeout := time.NewTimer(5 * time.Minute)
		defer timeout.Stop()
		for {
			select {
			case d := <-vl.Metrics():
				landRecs = append(landRecs, d)
				if len(landRecs) == N {
					close(doneLand)
					return
				}
			case <-timeout.C:
				close(doneLand)
				return
			}
		}
	}()

	maxQ := 0
	quitSample := make(chan struct{})
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if q := vl.QueueLen(); q > maxQ { maxQ = q }
			case <-quitSample:
				return
			}
		}
	}()

	enqRecs := make([]time.Duration, 0, N)
	enqCh := make(chan time.Duration, N)
	feed := make(chan int, N)
	for i := 0; i < N; i++ { feed <- i }
	close(feed)

	t0 := time.Now()
	errCh := make(chan error, CONC)
	for w := 0; w < CONC; w++ {
		go func() {
			for i := range feed {
				st := time.Now()
				vl.Enqueue(slugs[i%friends], "203.0.113.7", benchUA)
				enqCh <- time.Since(st)
			}
			errCh <- nil
		}()
	}
	for w := 0; w < CONC; w++ { <-errCh }
	close(enqCh)
	for d := range enqCh { enqRecs = append(enqRecs, d) }
	enqDur := time.Since(t0)

	<-doneLand
	_ = stop(context.Background())
	close(quitSample)

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 { return 0 }
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 { k = 0 }
		if k >= len(xs) { k = len(xs) - 1 }
		return xs[k]
	}

	fmt.Printf("N=%d, CONC=%d, WORKERS=%d\n", N, CONC, WORKERS)
	fmt.Printf("Enqueue total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		enqDur, enqDur/time.Duration(N), pct(enqRecs, 0.50), pct(enqRecs, 0.95), pct(enqRecs, 0.99))
	if len(landRecs) > 0 {
		fmt.Printf("Landing: samples=%d, p50=%v, p95=%v, p99=%v, maxQueue=%d\n",
			len(landRecs), pct(landRecs, 0.50), pct(landRecs, 0.95), pct(landRecs, 0.99), maxQ)
	}
}
