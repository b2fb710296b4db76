package model

import (
	"time"
)

// AffiliateModel 推广伙伴
type AffiliateModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Name  string `json:"name" gorm:"not null" binding:"required"`
	Email string `json:"email" gorm:"not null;uniqueIndex"` // 入库前统一转小写

	// 所属计划
	ProgramId int64 `json:"program_id" gorm:"not null"`

	// 推广码与推广链接，创建时生成一次；仅在市场地址变更时批量重新生成
	ReferralCode string `json:"referral_code" gorm:"not null;index"`
	ReferralLink string `json:"referral_link"`

	// 结算信息（可选）
	BankDetails string `json:"bank_details"`

	// 状态
	Status AffiliateStatus `json:"status" gorm:"default:'pending'"`
}

// TableName 自定义表名
func (AffiliateModel) TableName() string {
	return "affiliate"
}

// AffiliateStatus 伙伴状态
type AffiliateStatus string

const (
	AffiliateStatusPending  AffiliateStatus = "pending"  // 待激活
	AffiliateStatusActive   AffiliateStatus = "active"   // 启用
	AffiliateStatusInactive AffiliateStatus = "inactive" // 停用
)
