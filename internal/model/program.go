package model

import (
	"time"
)

// ProgramModel 佣金计划
type ProgramModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Name string      `json:"name" gorm:"not null" binding:"required"`
	Type ProgramType `json:"type" gorm:"not null"`

	// 佣金规则
	Commission     float64        `json:"commission" gorm:"not null"`
	CommissionType CommissionType `json:"commission_type" gorm:"not null"`

	// 奖励计划的达标人数（仅 type=reward 时有效）
	ReferralTarget int `json:"referral_target" gorm:"default:0"`

	// 状态
	Status ProgramStatus `json:"status" gorm:"default:'active'"`
}

// TableName 自定义表名
func (ProgramModel) TableName() string {
	return "program"
}

// ProgramType 计划类型
type ProgramType string

const (
	ProgramTypeSignup   ProgramType = "signup"   // 注册计划
	ProgramTypePurchase ProgramType = "purchase" // 购买计划
	ProgramTypeReward   ProgramType = "reward"   // 奖励计划（不产生货币佣金）
)

// CommissionType 佣金类型
type CommissionType string

const (
	CommissionTypeFixed      CommissionType = "fixed"      // 固定金额
	CommissionTypePercentage CommissionType = "percentage" // 交易金额百分比
)

// ProgramStatus 计划状态
type ProgramStatus string

const (
	ProgramStatusActive   ProgramStatus = "active"   // 启用
	ProgramStatusInactive ProgramStatus = "inactive" // 停用
)
