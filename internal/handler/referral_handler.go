package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/ams/internal/config"
	"github.com/blues/ams/internal/logic"
	"github.com/blues/ams/internal/model"
	"github.com/blues/ams/internal/sharetribe"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReferralHandler struct {
	referralLogic   *logic.ReferralLogic
	validationLogic *logic.ValidationLogic
}

func NewReferralHandler(db *gorm.DB, stClient *sharetribe.Client, cfg *config.Config) *ReferralHandler {
	return &ReferralHandler{
		referralLogic:   logic.NewReferralLogic(db),
		validationLogic: logic.NewValidationLogic(db, stClient, cfg.ShareTribe),
	}
}

// GetReferrals 获取推荐记录列表
func (h *ReferralHandler) GetReferrals(c *gin.Context) {
	affiliateId, _ := strconv.ParseInt(c.DefaultQuery("affiliate_id", "0"), 10, 64)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	referrals, total, err := h.referralLogic.GetReferrals(affiliateId, c.Query("status"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrals": ToReferralResponseList(referrals),
		"pagination": Pagination{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
		},
	})
}

// ValidateReferrals 触发一次批量外部校验，force=true时忽略有效期
func (h *ReferralHandler) ValidateReferrals(c *gin.Context) {
	force := c.DefaultQuery("force", "false") == "true"

	report, err := h.validationLogic.ValidateAll(force)
	if err != nil {
		// 外部平台不可用时直接暴露给运营方
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"report": report})
}

// ValidateReferral 强制校验单条推荐记录
func (h *ReferralHandler) ValidateReferral(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的推荐记录ID"})
		return
	}

	referral, err := h.validationLogic.ValidateReferral(id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"referral": ToReferralResponse(referral)})
}

// ApproveReferral 审核通过
func (h *ReferralHandler) ApproveReferral(c *gin.Context) {
	h.updateStatus(c, model.ReferralStatusApproved, "推荐已通过审核")
}

// RejectReferral 审核拒绝
func (h *ReferralHandler) RejectReferral(c *gin.Context) {
	h.updateStatus(c, model.ReferralStatusRejected, "推荐已拒绝")
}

func (h *ReferralHandler) updateStatus(c *gin.Context, status model.ReferralStatus, message string) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的推荐记录ID"})
		return
	}

	if err := h.referralLogic.UpdateReferralStatus(id, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// GetConnectionStatus 外部平台连通性检测
func (h *ReferralHandler) GetConnectionStatus(c *gin.Context) {
	name, err := h.validationLogic.TestConnection()
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"connected": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true, "marketplace": name})
}
