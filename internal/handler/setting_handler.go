package handler

import (
	"net/http"

	"github.com/blues/ams/internal/config"
	"github.com/blues/ams/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SettingHandler struct {
	settingLogic *logic.SettingLogic
}

func NewSettingHandler(db *gorm.DB, cfg *config.Config) *SettingHandler {
	return &SettingHandler{
		settingLogic: logic.NewSettingLogic(db, cfg),
	}
}

// GetSettings 获取运营配置
func (h *SettingHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingLogic.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings 更新运营配置，市场地址变更会触发推广链接批量重建
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var updateData struct {
		MarketplaceURL    *string  `json:"marketplace_url"`
		Currency          *string  `json:"currency"`
		DefaultCommission *float64 `json:"default_commission"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if updateData.MarketplaceURL != nil {
		updates["marketplace_url"] = *updateData.MarketplaceURL
	}
	if updateData.Currency != nil {
		updates["currency"] = *updateData.Currency
	}
	if updateData.DefaultCommission != nil {
		updates["default_commission"] = *updateData.DefaultCommission
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有要更新的字段"})
		return
	}

	settings, err := h.settingLogic.UpdateSettings(updates)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "配置更新成功",
		"settings": settings,
	})
}
