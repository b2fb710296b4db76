package logic

import (
	"errors"

	"github.com/blues/ams/internal/config"
	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/model"
	"gorm.io/gorm"
)

// SettingLogic 运营配置业务逻辑
type SettingLogic struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewSettingLogic 创建运营配置业务逻辑
func NewSettingLogic(db *gorm.DB, cfg *config.Config) *SettingLogic {
	return &SettingLogic{db: db, cfg: cfg}
}

// GetSettings 获取运营配置，首次读取时用配置文件初始化
func (s *SettingLogic) GetSettings() (*model.SettingModel, error) {
	var setting model.SettingModel
	err := s.db.First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = model.SettingModel{
			MarketplaceURL:    s.cfg.Marketplace.BaseURL,
			Currency:          s.cfg.Marketplace.Currency,
			DefaultCommission: s.cfg.Marketplace.DefaultCommission,
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		return nil, err
	}

	return &setting, nil
}

// UpdateSettings 更新运营配置。
// 市场地址变更时批量重新生成所有伙伴的推广链接。
func (s *SettingLogic) UpdateSettings(updates map[string]interface{}) (*model.SettingModel, error) {
	setting, err := s.GetSettings()
	if err != nil {
		return nil, err
	}

	oldURL := setting.MarketplaceURL

	if err := s.db.Model(setting).Updates(updates).Error; err != nil {
		return nil, err
	}

	if newURL, ok := updates["marketplace_url"].(string); ok && newURL != oldURL {
		regenerated, err := NewAffiliateLogic(s.db).RegenerateLinks(newURL)
		if err != nil {
			logger.Error("Failed to regenerate referral links after URL change: %v", err)
		} else {
			logger.Info("Marketplace URL changed, regenerated %d referral links", regenerated)
		}
	}

	return s.GetSettings()
}
