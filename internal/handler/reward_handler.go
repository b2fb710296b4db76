package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/ams/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RewardHandler struct {
	rewardLogic *logic.RewardLogic
}

func NewRewardHandler(db *gorm.DB) *RewardHandler {
	return &RewardHandler{
		rewardLogic: logic.NewRewardLogic(db),
	}
}

// GetRewards 获取奖励记录列表
func (h *RewardHandler) GetRewards(c *gin.Context) {
	affiliateId, _ := strconv.ParseInt(c.DefaultQuery("affiliate_id", "0"), 10, 64)

	rewards, err := h.rewardLogic.GetRewards(affiliateId)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取奖励记录成功", gin.H{"rewards": rewards})
}

// ClaimReward 领取已达标的奖励
func (h *RewardHandler) ClaimReward(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "无效的奖励记录ID")
		return
	}

	if err := h.rewardLogic.ClaimReward(id); err != nil {
		ErrorResponse(c, http.StatusConflict, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "奖励已领取", nil)
}
