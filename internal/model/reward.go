package model

import (
	"time"
)

// RewardModel 奖励计划达标记录，仅 type=reward 的计划产生
type RewardModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AffiliateId int64 `json:"affiliate_id" gorm:"not null;uniqueIndex:idx_reward_affiliate_program"`
	ProgramId   int64 `json:"program_id" gorm:"not null;uniqueIndex:idx_reward_affiliate_program"`

	Status      RewardStatus `json:"status" gorm:"default:'pending'"`
	QualifiedAt *time.Time   `json:"qualified_at"`
}

// TableName 自定义表名
func (RewardModel) TableName() string {
	return "reward"
}

// RewardStatus 奖励状态
type RewardStatus string

const (
	RewardStatusPending   RewardStatus = "pending"   // 未达标
	RewardStatusQualified RewardStatus = "qualified" // 已达标
	RewardStatusClaimed   RewardStatus = "claimed"   // 已领取
	RewardStatusExpired   RewardStatus = "expired"   // 已过期
)
