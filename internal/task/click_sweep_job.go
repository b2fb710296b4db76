package task

import (
	"time"

	"github.com/blues/ams/internal/config"
	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/logic"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ClickSweepJob 过期点击清理任务
type ClickSweepJob struct {
	referralLogic *logic.ReferralLogic
	config        *config.Config
}

// NewClickSweepJob 创建过期点击清理任务
func NewClickSweepJob(db *gorm.DB, cfg *config.Config) *ClickSweepJob {
	return &ClickSweepJob{
		referralLogic: logic.NewReferralLogic(db),
		config:        cfg,
	}
}

// GetName 获取任务名称
func (j *ClickSweepJob) GetName() string {
	return "referral_click_sweeper"
}

// GetSchedule 获取调度配置
func (j *ClickSweepJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.ClickSweepInterval) * time.Second)
}

// Execute 执行任务
func (j *ClickSweepJob) Execute() {
	expired, err := j.referralLogic.ExpireStaleClicks()
	if err != nil {
		logger.Error("Failed to expire stale referral clicks: %v", err)
		return
	}

	if expired > 0 {
		logger.Info("Expired %d stale referral clicks", expired)
	}
}
