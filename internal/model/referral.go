package model

import (
	"time"
)

// ReferralModel 推荐记录，(affiliate_id, customer_email) 唯一
type ReferralModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AffiliateId int64 `json:"affiliate_id" gorm:"not null;uniqueIndex:idx_referral_affiliate_customer"`

	// 客户信息，邮箱入库前统一转小写
	CustomerEmail string `json:"customer_email" gorm:"not null;uniqueIndex:idx_referral_affiliate_customer"`
	CustomerName  string `json:"customer_name"`

	// 审核状态与累计佣金
	Status     ReferralStatus `json:"status" gorm:"default:'pending'"`
	Commission float64        `json:"commission" gorm:"default:0"`

	// 外部平台校验结果
	ValidationStatus ValidationStatus `json:"sharetribe_validation_status"`
	SharetribeUserId string           `json:"sharetribe_user_id"`
	ValidatedAt      *time.Time       `json:"validated_at"`

	// 外部平台统计快照
	ListingsCount     int     `json:"listings_count" gorm:"default:0"`
	TransactionsCount int     `json:"transactions_count" gorm:"default:0"`
	TotalRevenue      float64 `json:"total_revenue" gorm:"default:0"`
}

// TableName 自定义表名
func (ReferralModel) TableName() string {
	return "referral"
}

// ReferralStatus 推荐审核状态
type ReferralStatus string

const (
	ReferralStatusPending  ReferralStatus = "pending"  // 待审核
	ReferralStatusApproved ReferralStatus = "approved" // 已通过
	ReferralStatusRejected ReferralStatus = "rejected" // 已拒绝
)

// ValidationStatus 外部平台校验状态（红绿灯）
type ValidationStatus string

const (
	ValidationStatusGreen ValidationStatus = "green" // 用户存在且邮箱已验证
	ValidationStatusAmber ValidationStatus = "amber" // 用户存在但邮箱未验证
	ValidationStatusRed   ValidationStatus = "red"   // 用户不存在
)
