package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BerniceZTT/course_funnel/utils"
)

// cronLogger 将 cron 的日志转到 zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	utils.Logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	utils.Logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}

// Scheduler 定时任务
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler 建立定时任务，schedule 为标准五栏 cron 表达式
func NewScheduler(svc *FunnelService, schedule string) (*Scheduler, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(schedule, func() { RunFunnelSync(svc) }); err != nil {
		return nil, err
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	utils.Logger.Info().Msg("定时任务已启动")
}

// Stop 停止排程并等待执行中的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		utils.Logger.Info().Msg("定时任务已停止")
	case <-ctx.Done():
		utils.Logger.Warn().Msg("等待定时任务结束逾时")
	}
}

// RunFunnelSync 每日同步流程追踪记录
func RunFunnelSync(svc *FunnelService) {
	start := time.Now()
	utils.Logger.Info().Msg("开始执行每日流程追踪同步任务...")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	created, err := svc.SyncFunnelRecords(ctx)
	if err != nil {
		utils.Logger.Error().Err(err).Int("created", created).Msg("流程追踪同步失败")
		return
	}
	utils.Logger.Info().
		Int("created", created).
		Dur("elapsed", time.Since(start)).
		Msg("每日流程追踪同步任务完成")
}
