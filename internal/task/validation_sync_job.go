package task

import (
	"time"

	"github.com/blues/ams/internal/config"
	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/logic"
	"github.com/blues/ams/internal/sharetribe"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// ValidationSyncJob 推荐记录外部校验任务
type ValidationSyncJob struct {
	validationLogic *logic.ValidationLogic
	config          *config.Config
}

// NewValidationSyncJob 创建外部校验任务
func NewValidationSyncJob(db *gorm.DB, stClient *sharetribe.Client, cfg *config.Config) *ValidationSyncJob {
	return &ValidationSyncJob{
		validationLogic: logic.NewValidationLogic(db, stClient, cfg.ShareTribe),
		config:          cfg,
	}
}

// GetName 获取任务名称
func (j *ValidationSyncJob) GetName() string {
	return "referral_validation_sync"
}

// GetSchedule 获取调度配置
func (j *ValidationSyncJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.ValidationInterval) * time.Second)
}

// Execute 执行任务
func (j *ValidationSyncJob) Execute() {
	logger.Info("Starting referral validation sync task")

	report, err := j.validationLogic.ValidateAll(false)
	if err != nil {
		logger.Error("Referral validation sync failed: %v", err)
		return
	}

	logger.Info("Referral validation sync completed. Checked %d (green=%d amber=%d red=%d), stats updated %d, skipped %d",
		report.Checked, report.Green, report.Amber, report.Red, report.StatsUpdated, report.Skipped)
}
