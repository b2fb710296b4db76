package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/ams/internal/logic"
	"github.com/blues/ams/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type AffiliateHandler struct {
	affiliateLogic *logic.AffiliateLogic
	referralLogic  *logic.ReferralLogic
	payoutLogic    *logic.PayoutLogic
}

func NewAffiliateHandler(db *gorm.DB) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateLogic: logic.NewAffiliateLogic(db),
		referralLogic:  logic.NewReferralLogic(db),
		payoutLogic:    logic.NewPayoutLogic(db),
	}
}

// CreateAffiliate 创建推广伙伴
func (h *AffiliateHandler) CreateAffiliate(c *gin.Context) {
	var affiliate model.AffiliateModel
	if err := c.ShouldBindJSON(&affiliate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.affiliateLogic.CreateAffiliate(&affiliate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "推广伙伴创建成功",
		"affiliate": ToAffiliateResponse(&affiliate),
	})
}

// GetAffiliates 获取伙伴列表，统计字段逐个派生
func (h *AffiliateHandler) GetAffiliates(c *gin.Context) {
	status := c.Query("status")
	programId, _ := strconv.ParseInt(c.DefaultQuery("program_id", "0"), 10, 64)

	affiliates, err := h.affiliateLogic.GetAffiliates(status, programId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := lo.Map(affiliates, func(a model.AffiliateModel, _ int) AffiliateResponse {
		resp := ToAffiliateResponse(&a)
		if summary, err := h.affiliateLogic.GetAffiliateSummary(a.Id); err == nil {
			resp.TotalReferrals = summary.TotalReferrals
			resp.TotalEarnings = summary.TotalEarnings
		}
		return resp
	})

	c.JSON(http.StatusOK, gin.H{"affiliates": responses})
}

// GetAffiliate 获取单个伙伴详情
func (h *AffiliateHandler) GetAffiliate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的伙伴ID"})
		return
	}

	affiliate, err := h.affiliateLogic.GetAffiliate(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	resp := ToAffiliateResponse(affiliate)
	if summary, err := h.affiliateLogic.GetAffiliateSummary(id); err == nil {
		resp.TotalReferrals = summary.TotalReferrals
		resp.TotalEarnings = summary.TotalEarnings
	}

	c.JSON(http.StatusOK, gin.H{"affiliate": resp})
}

// UpdateAffiliate 更新伙伴
func (h *AffiliateHandler) UpdateAffiliate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的伙伴ID"})
		return
	}

	// 推广码与链接不可手工修改
	var updateData struct {
		Name        *string `json:"name"`
		Email       *string `json:"email"`
		Status      *string `json:"status"`
		BankDetails *string `json:"bank_details"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if updateData.Name != nil {
		updates["name"] = *updateData.Name
	}
	if updateData.Email != nil {
		updates["email"] = *updateData.Email
	}
	if updateData.Status != nil {
		updates["status"] = *updateData.Status
	}
	if updateData.BankDetails != nil {
		updates["bank_details"] = *updateData.BankDetails
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有要更新的字段"})
		return
	}

	if err := h.affiliateLogic.UpdateAffiliate(id, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "伙伴更新成功"})
}

// DeleteAffiliate 删除伙伴及其全部关联数据
func (h *AffiliateHandler) DeleteAffiliate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的伙伴ID"})
		return
	}

	if err := h.affiliateLogic.DeleteAffiliate(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "伙伴及其关联数据已删除"})
}

// GetAffiliateReferrals 获取伙伴的推荐记录
func (h *AffiliateHandler) GetAffiliateReferrals(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的伙伴ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	referrals, total, err := h.referralLogic.GetReferrals(id, c.Query("status"), page, pageSize)
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

// GetAffiliateBalance 获取伙伴的结算余额
func (h *AffiliateHandler) GetAffiliateBalance(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的伙伴ID"})
		return
	}

	balance, err := h.payoutLogic.GetBalance(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
