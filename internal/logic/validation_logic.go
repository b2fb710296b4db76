package logic

import (
	"errors"
	"time"

	"github.com/blues/ams/internal/config"
	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/model"
	"github.com/blues/ams/internal/sharetribe"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// validationFreshness 校验结果的有效期，期内不重复请求外部平台
const validationFreshness = time.Hour

// ValidationLogic 外部平台校验与同步业务逻辑
type ValidationLogic struct {
	db        *gorm.DB
	client    *sharetribe.Client
	rateDelay time.Duration
	rewards   *RewardLogic
}

// NewValidationLogic 创建校验业务逻辑
func NewValidationLogic(db *gorm.DB, client *sharetribe.Client, cfg config.ShareTribeConfig) *ValidationLogic {
	delay := time.Duration(cfg.RateDelayMs) * time.Millisecond
	if delay <= 0 {
		delay = time.Second
	}

	return &ValidationLogic{
		db:        db,
		client:    client,
		rateDelay: delay,
		rewards:   NewRewardLogic(db),
	}
}

// ValidationReport 一次批量校验的结果汇总
type ValidationReport struct {
	Checked      int `json:"checked"`
	Green        int `json:"green"`
	Amber        int `json:"amber"`
	Red          int `json:"red"`
	StatsUpdated int `json:"stats_updated"`
	Skipped      int `json:"skipped"`
}

// ValidateAll 批量校验推荐记录。
// 用户目录整批拉取一次在内存中比对；逐条统计刷新之间留固定间隔，
// 避免触发外部平台限流。force为true时忽略有效期全部重查。
func (v *ValidationLogic) ValidateAll(force bool) (*ValidationReport, error) {
	var referrals []model.ReferralModel
	if err := v.db.Find(&referrals).Error; err != nil {
		return nil, err
	}

	report := &ValidationReport{}
	if len(referrals) == 0 {
		return report, nil
	}

	users, err := v.client.QueryUsers()
	if err != nil {
		return nil, err
	}
	usersByEmail := lo.KeyBy(users, func(u sharetribe.User) string { return u.Email })

	cutoff := time.Now().Add(-validationFreshness)
	first := true

	for i := range referrals {
		referral := &referrals[i]

		if !force && referral.ValidatedAt != nil && referral.ValidatedAt.After(cutoff) {
			report.Skipped++
			continue
		}

		if !first {
			time.Sleep(v.rateDelay)
		}
		first = false

		user, found := usersByEmail[referral.CustomerEmail]
		var userPtr *sharetribe.User
		if found {
			userPtr = &user
		}

		status := ResolveValidationStatus(userPtr)
		if err := v.writeValidationResult(referral, userPtr, status); err != nil {
			logger.Error("Failed to persist validation for referral %d: %v", referral.Id, err)
			continue
		}

		report.Checked++
		switch status {
		case model.ValidationStatusGreen:
			report.Green++
		case model.ValidationStatusAmber:
			report.Amber++
		case model.ValidationStatusRed:
			report.Red++
		}

		if userPtr != nil {
			if changed, err := v.refreshStats(referral, userPtr.ID); err != nil {
				logger.Warn("Failed to refresh stats for referral %d: %v", referral.Id, err)
			} else if changed {
				report.StatsUpdated++
			}
		}
	}

	// 校验结果变化后重新核算奖励达标
	if err := v.rewards.RecheckAll(); err != nil {
		logger.Error("Reward recheck after validation failed: %v", err)
	}

	return report, nil
}

// ValidateReferral 强制校验单条推荐记录
func (v *ValidationLogic) ValidateReferral(id int64) (*model.ReferralModel, error) {
	var referral model.ReferralModel
	if err := v.db.First(&referral, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("推荐记录不存在")
		}
		return nil, err
	}

	user, err := v.client.ShowUserByEmail(referral.CustomerEmail)
	if err != nil && !errors.Is(err, sharetribe.ErrUserNotFound) {
		return nil, err
	}

	status := ResolveValidationStatus(user)
	if err := v.writeValidationResult(&referral, user, status); err != nil {
		return nil, err
	}

	if user != nil {
		if _, err := v.refreshStats(&referral, user.ID); err != nil {
			logger.Warn("Failed to refresh stats for referral %d: %v", referral.Id, err)
		}
	}

	if err := v.db.First(&referral, id).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

// writeValidationResult 回写校验状态、时间戳与外部用户ID
func (v *ValidationLogic) writeValidationResult(referral *model.ReferralModel, user *sharetribe.User, status model.ValidationStatus) error {
	now := time.Now()
	updates := map[string]interface{}{
		"validation_status": status,
		"validated_at":      &now,
	}
	if user != nil {
		updates["sharetribe_user_id"] = user.ID
	}

	return v.db.Model(referral).Updates(updates).Error
}

// refreshStats 重新查询外部平台的列表数、交易数与成交额，仅在数值变化时回写
func (v *ValidationLogic) refreshStats(referral *model.ReferralModel, userID string) (bool, error) {
	listings, err := v.client.CountListingsByAuthor(userID)
	if err != nil {
		return false, err
	}

	transactions, revenue, err := v.client.QueryTransactionsByParticipant(userID)
	if err != nil {
		return false, err
	}

	updates := map[string]interface{}{}
	if listings != referral.ListingsCount {
		updates["listings_count"] = listings
	}
	if transactions != referral.TransactionsCount {
		updates["transactions_count"] = transactions
	}
	if revenue != referral.TotalRevenue {
		updates["total_revenue"] = revenue
	}

	if len(updates) == 0 {
		return false, nil
	}

	return true, v.db.Model(referral).Updates(updates).Error
}

// TestConnection 外部平台连通性检测
func (v *ValidationLogic) TestConnection() (string, error) {
	return v.client.ShowMarketplace()
}

// ResolveValidationStatus 红绿灯规则：
// 查无此人=red，存在但邮箱未验证=amber，邮箱已验证=green。
func ResolveValidationStatus(user *sharetribe.User) model.ValidationStatus {
	if user == nil {
		return model.ValidationStatusRed
	}
	if !user.EmailVerified {
		return model.ValidationStatusAmber
	}
	return model.ValidationStatusGreen
}
