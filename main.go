package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lunch_vote/internal/api"
	"lunch_vote/internal/clients"
	"lunch_vote/internal/models"
	"lunch_vote/internal/repository"
	"lunch_vote/internal/roomstate"
	"lunch_vote/internal/service"
	"lunch_vote/internal/storage"
	"lunch_vote/pkg/config"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// 初始化資料庫連接
	// 房間與餐廳列表存放在 PostgreSQL
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	// 自動遷移資料庫結構
	if err := db.AutoMigrate(&models.Room{}, &models.Restaurant{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to auto migrate database")
	}

	// 初始化 Redis 連接
	// 房間的共享狀態（加入名單、候選名單、餐廳快照）存放在這裡
	redisClient, err := storage.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize redis")
	}
	defer redisClient.Close()

	store := roomstate.NewRedisStore(redisClient, logger)

	// 初始化 repositories 與 services
	repos := repository.NewRepositories(db)
	places := clients.NewPlacesClient(cfg.Places.BaseURL, cfg.Places.APIKey)
	services := service.NewServices(repos, store, places, cfg.Places.Radius, logger)

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services, cfg.Session.CookieSecret)

	// 啟動伺服器
	logger.Info().Str("address", cfg.Server.Address).Msg("server starting")
	if err := r.Run(cfg.Server.Address); err != nil {
		logger.Fatal().Err(err).Msg("failed to run server")
	}
}
