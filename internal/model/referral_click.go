package model

import (
	"time"
)

// ReferralClickModel 匿名访问点击记录，身份确认前的前置线索
type ReferralClickModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AffiliateId  int64  `json:"affiliate_id" gorm:"not null;index"`
	ReferralCode string `json:"referral_code" gorm:"not null;index"`
	SessionToken string `json:"session_token" gorm:"index"`

	Status    ClickStatus `json:"status" gorm:"default:'pending_match';index"`
	ClickedAt time.Time   `json:"clicked_at" gorm:"not null"`

	// 匹配结果
	MatchedReferralId int64      `json:"matched_referral_id"`
	MatchedAt         *time.Time `json:"matched_at"`
}

// TableName 自定义表名
func (ReferralClickModel) TableName() string {
	return "referral_click"
}

// ClickStatus 点击状态
type ClickStatus string

const (
	ClickStatusPendingMatch ClickStatus = "pending_match" // 待匹配
	ClickStatusMatched      ClickStatus = "matched"       // 已匹配注册
	ClickStatusExpired      ClickStatus = "expired"       // 超时未匹配
)
