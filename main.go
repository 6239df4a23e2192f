package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"imposter_web/internal/api"
	"imposter_web/internal/config"
	"imposter_web/internal/repository"
	rmodels "imposter_web/internal/repository/models"
	"imposter_web/internal/service"
	"imposter_web/internal/storage"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化場次歷史的儲存後端
	// 沒有設定資料庫時改用記憶體，房間本來就不做持久化
	var repos *repository.Repositories
	if cfg.DB.Host != "" {
		db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()

		if err := db.AutoMigrate(&rmodels.Session{}); err != nil {
			log.Fatalf("Failed to auto migrate database: %v", err)
		}
		repos = repository.NewRepositories(db)
	} else {
		log.Println("no database configured, session history kept in memory")
		repos = repository.NewMemoryRepositories()
	}

	// 初始化服務
	services := service.NewServices(repos)

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services, cfg.Server.AllowedOrigins)

	// 啟動伺服器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
