package model

import (
	"time"
)

// PayoutModel 结算打款记录，创建后不可修改
type PayoutModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	AffiliateId int64      `json:"affiliate_id" gorm:"not null;index"`
	Amount      float64    `json:"amount" gorm:"not null"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference" gorm:"size:18"`
	Status      string     `json:"status" gorm:"default:'paid'"`
	PaidAt      *time.Time `json:"paid_at"`
}

// TableName 自定义表名
func (PayoutModel) TableName() string {
	return "payout"
}
