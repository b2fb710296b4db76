package router

import (
	"github.com/blues/ams/internal/config"
	"github.com/blues/ams/internal/handler"
	"github.com/blues/ams/internal/sharetribe"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, stClient *sharetribe.Client, cfg *config.Config) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "affiliate-marketing-service",
		})
	})

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 佣金计划
		programHandler := handler.NewProgramHandler(db)
		programs := v1.Group("/programs")
		{
			programs.POST("", programHandler.CreateProgram)
			programs.GET("", programHandler.GetPrograms)
			programs.GET("/:id", programHandler.GetProgram)
			programs.PUT("/:id", programHandler.UpdateProgram)
			programs.DELETE("/:id", programHandler.DeleteProgram)
		}

		// 推广伙伴
		affiliateHandler := handler.NewAffiliateHandler(db)
		affiliates := v1.Group("/affiliates")
		{
			affiliates.POST("", affiliateHandler.CreateAffiliate)
			affiliates.GET("", affiliateHandler.GetAffiliates)
			affiliates.GET("/:id", affiliateHandler.GetAffiliate)
			affiliates.PUT("/:id", affiliateHandler.UpdateAffiliate)
			affiliates.DELETE("/:id", affiliateHandler.DeleteAffiliate)
			affiliates.GET("/:id/referrals", affiliateHandler.GetAffiliateReferrals)
			affiliates.GET("/:id/balance", affiliateHandler.GetAffiliateBalance)
		}

		// 事件接入
		eventHandler := handler.NewEventHandler(db)
		v1.POST("/events", eventHandler.TrackEvent)
		v1.POST("/webhooks/analytics", eventHandler.TrackBatch)
		v1.POST("/clicks", eventHandler.TrackClick)

		// 推荐记录与外部校验
		referralHandler := handler.NewReferralHandler(db, stClient, cfg)
		referrals := v1.Group("/referrals")
		{
			referrals.GET("", referralHandler.GetReferrals)
			referrals.POST("/validate", referralHandler.ValidateReferrals)
			referrals.POST("/:id/validate", referralHandler.ValidateReferral)
			referrals.POST("/:id/approve", referralHandler.ApproveReferral)
			referrals.POST("/:id/reject", referralHandler.RejectReferral)
		}
		v1.GET("/sharetribe/status", referralHandler.GetConnectionStatus)

		// 结算打款
		payoutHandler := handler.NewPayoutHandler(db)
		payouts := v1.Group("/payouts")
		{
			payouts.POST("", payoutHandler.CreatePayout)
			payouts.GET("", payoutHandler.GetPayouts)
		}

		// 奖励
		rewardHandler := handler.NewRewardHandler(db)
		rewards := v1.Group("/rewards")
		{
			rewards.GET("", rewardHandler.GetRewards)
			rewards.POST("/:id/claim", rewardHandler.ClaimReward)
		}

		// 运营配置
		settingHandler := handler.NewSettingHandler(db, cfg)
		settings := v1.Group("/settings")
		{
			settings.GET("", settingHandler.GetSettings)
			settings.PUT("", settingHandler.UpdateSettings)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
