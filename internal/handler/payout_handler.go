package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/ams/internal/logic"
	"github.com/blues/ams/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PayoutHandler struct {
	payoutLogic *logic.PayoutLogic
}

func NewPayoutHandler(db *gorm.DB) *PayoutHandler {
	return &PayoutHandler{
		payoutLogic: logic.NewPayoutLogic(db),
	}
}

// CreatePayout 创建打款记录
func (h *PayoutHandler) CreatePayout(c *gin.Context) {
	var payout model.PayoutModel
	if err := c.ShouldBindJSON(&payout); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if payout.AffiliateId == 0 {
		ErrorResponse(c, http.StatusBadRequest, "必须指定推广伙伴")
		return
	}

	if err := h.payoutLogic.CreatePayout(&payout); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "打款记录创建成功", gin.H{"payout": payout})
}

// GetPayouts 获取打款记录列表
func (h *PayoutHandler) GetPayouts(c *gin.Context) {
	affiliateId, _ := strconv.ParseInt(c.DefaultQuery("affiliate_id", "0"), 10, 64)

	payouts, err := h.payoutLogic.GetPayouts(affiliateId)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "获取打款记录成功", gin.H{"payouts": payouts})
}
