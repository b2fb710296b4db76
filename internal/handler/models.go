package handler

import (
	"time"

	"github.com/blues/ams/internal/model"
	"github.com/samber/lo"
)

// EventRequest 入站事件载荷，webhook与直连API共用（外部字段命名保持原样）
type EventRequest struct {
	EventName     string  `json:"eventName" binding:"required"`
	UTMSource     string  `json:"utm_source"`
	UTMMedium     string  `json:"utm_medium"`
	UTMCampaign   string  `json:"utm_campaign"`
	CustomerEmail string  `json:"customer_email"`
	CustomerName  string  `json:"customer_name"`
	TransactionId string  `json:"transaction_id"`
	Value         float64 `json:"value"`
	Currency      string  `json:"currency"`
	SessionToken  string  `json:"session_token"`
}

// BatchEventRequest GA4/GTM 风格的批量事件载荷
type BatchEventRequest struct {
	Events []EventRequest `json:"events" binding:"required"`
}

// ClickRequest 跟踪像素载荷
type ClickRequest struct {
	ReferralCode string `json:"referral_code" binding:"required"`
	SessionToken string `json:"session_token"`
}

// BatchEventResult 批量事件处理结果汇总
type BatchEventResult struct {
	Received   int `json:"received"`
	Tracked    int `json:"tracked"`
	Duplicates int `json:"duplicates"`
	Ignored    int `json:"ignored"`
	Failed     int `json:"failed"`
}

// AffiliateResponse 伙伴响应模型，统计字段读取时派生
type AffiliateResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Status         string    `json:"status"`
	ProgramID      int64     `json:"programId"`
	ReferralCode   string    `json:"referralCode"`
	ReferralLink   string    `json:"referralLink"`
	TotalReferrals int64     `json:"totalReferrals"`
	TotalEarnings  float64   `json:"totalEarnings"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ReferralResponse 推荐记录响应模型
type ReferralResponse struct {
	ID                int64      `json:"id"`
	AffiliateID       int64      `json:"affiliateId"`
	CustomerEmail     string     `json:"customerEmail"`
	CustomerName      string     `json:"customerName"`
	Status            string     `json:"status"`
	Commission        float64    `json:"commission"`
	ValidationStatus  string     `json:"validationStatus"`
	SharetribeUserID  string     `json:"sharetribeUserId"`
	ValidatedAt       *time.Time `json:"validatedAt"`
	ListingsCount     int        `json:"listingsCount"`
	TransactionsCount int        `json:"transactionsCount"`
	TotalRevenue      float64    `json:"totalRevenue"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// ToAffiliateResponse 将数据库模型转换为响应模型
func ToAffiliateResponse(affiliate *model.AffiliateModel) AffiliateResponse {
	return AffiliateResponse{
		ID:           affiliate.Id,
		Name:         affiliate.Name,
		Email:        affiliate.Email,
		Status:       string(affiliate.Status),
		ProgramID:    affiliate.ProgramId,
		ReferralCode: affiliate.ReferralCode,
		ReferralLink: affiliate.ReferralLink,
		CreatedAt:    affiliate.CreatedAt,
	}
}

// ToReferralResponse 将推荐记录数据库模型转换为响应模型
func ToReferralResponse(referral *model.ReferralModel) ReferralResponse {
	return ReferralResponse{
		ID:                referral.Id,
		AffiliateID:       referral.AffiliateId,
		CustomerEmail:     referral.CustomerEmail,
		CustomerName:      referral.CustomerName,
		Status:            string(referral.Status),
		Commission:        referral.Commission,
		ValidationStatus:  string(referral.ValidationStatus),
		SharetribeUserID:  referral.SharetribeUserId,
		ValidatedAt:       referral.ValidatedAt,
		ListingsCount:     referral.ListingsCount,
		TransactionsCount: referral.TransactionsCount,
		TotalRevenue:      referral.TotalRevenue,
		CreatedAt:         referral.CreatedAt,
	}
}

// ToReferralResponseList 将推荐记录列表转换为响应模型列表
func ToReferralResponseList(referrals []model.ReferralModel) []ReferralResponse {
	return lo.Map(referrals, func(r model.ReferralModel, _ int) ReferralResponse {
		return ToReferralResponse(&r)
	})
}
