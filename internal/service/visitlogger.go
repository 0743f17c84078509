package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chatthan/lastletter/internal/analytics"
	"github.com/chatthan/lastletter/internal/model"
	"github.com/chatthan/lastletter/internal/repository"
	"github.com/chatthan/lastletter/pkg/logger"
)

type visitJob struct {
	slug      string
	ip        string
	userAgent string
	enqAt     time.Time
}

// VisitLogger 访问日志的异步落地执行器。
// Enqueue 永不阻塞也永不向调用方抛错：队列满了直接丢弃并告警；
// slug 未命中、写库失败一律吞掉只记日志，埋点失败不影响看信。
type VisitLogger struct {
	friends   repository.FriendRepository
	visits    repository.VisitRepository
	ch        chan visitJob
	metricsCh chan time.Duration
}

func NewVisitLogger(friends repository.FriendRepository, visits repository.VisitRepository, queueSize int) *VisitLogger {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &VisitLogger{
		friends:   friends,
		visits:    visits,
		ch:        make(chan visitJob, queueSize),
		metricsCh: make(chan time.Duration, 65536),
	}
}

func (l *VisitLogger) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-l.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					l.process(ctx, job)
					cancel()
					if !job.enqAt.IsZero() {
						select {
						case l.metricsCh <- time.Since(job.enqAt):
						default:
						}
					}
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(l.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

// Enqueue 投递一次页面加载；每次投递最多产生一条记录，不去重
func (l *VisitLogger) Enqueue(slug, ip, userAgent string) {
	select {
	case l.ch <- visitJob{slug: slug, ip: ip, userAgent: userAgent, enqAt: time.Now()}:
	default:
		logger.Warn("visit queue full, drop", zap.String("slug", slug))
	}
}

func (l *VisitLogger) process(ctx context.Context, job visitJob) {
	f, err := l.friends.GetBySlug(ctx, job.slug)
	if err != nil {
		logger.Warn("visit log: resolve friend failed", zap.String("slug", job.slug), zap.Error(err))
		return
	}
	if f == nil {
		// 未知 slug 静默丢弃
		return
	}
	info := analytics.Classify(job.userAgent)
	visit := &model.VisitLog{
		FriendID:    f.ID,
		VisitedAt:   job.enqAt,
		IPAddress:   job.ip,
		UserAgent:   job.userAgent,
		DeviceType:  info.DeviceType,
		DeviceModel: info.DeviceModel,
		Browser:     info.Browser,
		OS:          info.OS,
	}
	if err := l.visits.Insert(ctx, visit); err != nil {
		logger.Warn("visit log: insert failed", zap.String("slug", job.slug), zap.Error(err))
	}
}

// Metrics 返回落地耗时的只读通道（每处理一条发送一次 duration）。
func (l *VisitLogger) Metrics() <-chan time.Duration { return l.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (l *VisitLogger) QueueLen() int { return len(l.ch) }
