package handler

import (
	"errors"
	"net/http"
	"sync"

	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/logic"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

// batchPoolSize 批量事件处理的协程池上限
const batchPoolSize = 10

type EventHandler struct {
	referralLogic *logic.ReferralLogic
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		referralLogic: logic.NewReferralLogic(db),
	}
}

// TrackEvent 接收单条注册/购买事件
func (h *EventHandler) TrackEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	referral, err := h.referralLogic.TrackEvent(toTrackEventInput(req))
	if err != nil {
		h.respondTrackError(c, req, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tracked":  true,
		"referral": ToReferralResponse(referral),
	})
}

// TrackBatch 接收GA4/GTM风格的批量事件，逐条归因后汇总结果
func (h *EventHandler) TrackBatch(c *gin.Context) {
	var req BatchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := BatchEventResult{Received: len(req.Events)}
	if len(req.Events) == 0 {
		c.JSON(http.StatusOK, gin.H{"result": result})
		return
	}

	poolSize := len(req.Events)
	if poolSize > batchPoolSize {
		poolSize = batchPoolSize
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer pool.Release()

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, event := range req.Events {
		event := event
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			_, err := h.referralLogic.TrackEvent(toTrackEventInput(event))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				result.Tracked++
			case errors.Is(err, logic.ErrDuplicateCustomer):
				result.Duplicates++
			case isIgnorableTrackError(err):
				result.Ignored++
			default:
				logger.Warn("Batch event tracking failed for campaign %s: %v", event.UTMCampaign, err)
				result.Failed++
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Failed++
			mu.Unlock()
		}
	}

	wg.Wait()

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// TrackClick 接收跟踪像素上报的匿名点击
func (h *EventHandler) TrackClick(c *gin.Context) {
	var req ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	click, err := h.referralLogic.TrackClick(req.ReferralCode, req.SessionToken)
	if err != nil {
		if errors.Is(err, logic.ErrCodeNotFound) {
			// 未知推广码按空操作处理，避免上报方重试
			logger.Info("Click with unknown referral code %s ignored", req.ReferralCode)
			c.JSON(http.StatusOK, gin.H{"tracked": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"tracked":       true,
		"session_token": click.SessionToken,
	})
}

// respondTrackError 归因失败的响应约定：
// 忽略类返回200空操作避免webhook重试风暴，重复客户返回409冲突。
func (h *EventHandler) respondTrackError(c *gin.Context, req EventRequest, err error) {
	switch {
	case isIgnorableTrackError(err):
		logger.Info("Event for campaign %s dropped: %v", req.UTMCampaign, err)
		c.JSON(http.StatusOK, gin.H{"tracked": false, "reason": err.Error()})
	case errors.Is(err, logic.ErrDuplicateCustomer):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, logic.ErrMissingValue), errors.Is(err, logic.ErrMissingEmail):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// isIgnorableTrackError 判断是否为丢弃类错误
func isIgnorableTrackError(err error) bool {
	return errors.Is(err, logic.ErrEventIgnored) ||
		errors.Is(err, logic.ErrCodeNotFound) ||
		errors.Is(err, logic.ErrAffiliateInactive) ||
		errors.Is(err, logic.ErrProgramInactive)
}

// toTrackEventInput 请求载荷转换为logic层输入
func toTrackEventInput(req EventRequest) logic.TrackEventInput {
	return logic.TrackEventInput{
		EventName:     req.EventName,
		UTMSource:     req.UTMSource,
		UTMMedium:     req.UTMMedium,
		UTMCampaign:   req.UTMCampaign,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		TransactionId: req.TransactionId,
		Value:         req.Value,
		Currency:      req.Currency,
		SessionToken:  req.SessionToken,
	}
}
