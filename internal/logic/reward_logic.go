package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/model"
	"gorm.io/gorm"
)

// RewardLogic 奖励计划业务逻辑
type RewardLogic struct {
	db *gorm.DB
}

// NewRewardLogic 创建奖励计划业务逻辑
func NewRewardLogic(db *gorm.DB) *RewardLogic {
	return &RewardLogic{db: db}
}

// RecheckAll 重新核算所有奖励计划伙伴的达标情况。
// 达标条件：外部校验为green的推荐数达到计划目标。
func (r *RewardLogic) RecheckAll() error {
	var programs []model.ProgramModel
	if err := r.db.Where("type = ? AND status = ?", model.ProgramTypeReward, model.ProgramStatusActive).
		Find(&programs).Error; err != nil {
		return fmt.Errorf("获取奖励计划失败: %w", err)
	}

	for _, program := range programs {
		var affiliates []model.AffiliateModel
		if err := r.db.Where("program_id = ?", program.Id).Find(&affiliates).Error; err != nil {
			logger.Error("Failed to fetch affiliates for reward program %d: %v", program.Id, err)
			continue
		}

		for _, affiliate := range affiliates {
			if err := r.recheckAffiliate(&program, &affiliate); err != nil {
				logger.Error("Failed to recheck reward for affiliate %d: %v", affiliate.Id, err)
			}
		}
	}

	return nil
}

// recheckAffiliate 核算单个伙伴的达标情况
func (r *RewardLogic) recheckAffiliate(program *model.ProgramModel, affiliate *model.AffiliateModel) error {
	var greenCount int64
	if err := r.db.Model(&model.ReferralModel{}).
		Where("affiliate_id = ? AND validation_status = ?", affiliate.Id, model.ValidationStatusGreen).
		Count(&greenCount).Error; err != nil {
		return err
	}

	var reward model.RewardModel
	err := r.db.Where("affiliate_id = ? AND program_id = ?", affiliate.Id, program.Id).First(&reward).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		reward = model.RewardModel{
			AffiliateId: affiliate.Id,
			ProgramId:   program.Id,
			Status:      model.RewardStatusPending,
		}
		if err := r.db.Create(&reward).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	// 已领取的奖励不再变动
	if reward.Status == model.RewardStatusClaimed {
		return nil
	}

	if int(greenCount) >= program.ReferralTarget && reward.Status != model.RewardStatusQualified {
		now := time.Now()
		updates := map[string]interface{}{
			"status":       model.RewardStatusQualified,
			"qualified_at": &now,
		}
		if err := r.db.Model(&reward).Updates(updates).Error; err != nil {
			return err
		}
		logger.Info("Affiliate %d qualified for reward program %d (%d/%d green referrals)",
			affiliate.Id, program.Id, greenCount, program.ReferralTarget)
	}

	return nil
}

// GetRewards 获取奖励记录列表
func (r *RewardLogic) GetRewards(affiliateId int64) ([]model.RewardModel, error) {
	var rewards []model.RewardModel

	query := r.db.Order("created_at DESC")
	if affiliateId > 0 {
		query = query.Where("affiliate_id = ?", affiliateId)
	}
	if err := query.Find(&rewards).Error; err != nil {
		return nil, fmt.Errorf("获取奖励记录失败: %w", err)
	}

	return rewards, nil
}

// ClaimReward 领取已达标的奖励
func (r *RewardLogic) ClaimReward(id int64) error {
	var reward model.RewardModel
	if err := r.db.First(&reward, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("奖励记录不存在")
		}
		return err
	}

	if reward.Status != model.RewardStatusQualified {
		return errors.New("奖励尚未达标，无法领取")
	}

	return r.db.Model(&reward).Update("status", model.RewardStatusClaimed).Error
}
