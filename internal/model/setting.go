package model

import (
	"time"
)

// SettingModel 运营配置，单行记录
type SettingModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 市场站点地址，变更后需要批量重新生成推广链接
	MarketplaceURL string `json:"marketplace_url"`

	Currency          string  `json:"currency" gorm:"default:'GBP'"`
	DefaultCommission float64 `json:"default_commission" gorm:"default:0"`
}

// TableName 自定义表名
func (SettingModel) TableName() string {
	return "setting"
}
