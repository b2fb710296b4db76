package main

import (
	"log"

	"github.com/blues/ams/internal/config"
	"github.com/blues/ams/internal/database"
	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/router"
	"github.com/blues/ams/internal/sharetribe"
	"github.com/blues/ams/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志器
	if err := logger.InitFromConfig(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化ShareTribe客户端
	stClient, err := sharetribe.Init(cfg.ShareTribe)
	if err != nil {
		log.Fatalf("Failed to initialize sharetribe client: %v", err)
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, stClient, cfg)

	// 启动定时任务
	task.Start(db, stClient, cfg)

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
