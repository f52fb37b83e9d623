package main

import (
	"bufio"
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"stock-predictor-backend/internal/cache"
	"stock-predictor-backend/internal/config"
	"stock-predictor-backend/internal/forecast"
	"stock-predictor-backend/internal/handler"
	"stock-predictor-backend/internal/marketdata"
	"stock-predictor-backend/internal/store"
)

func init() {
	// 手动加载 .env 文件
	file, err := os.Open(".env")
	if err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			os.Setenv(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}
}

func main() {
	cfg := config.GetAppConfig()

	// 用户凭证库
	userStore, err := store.NewUserStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("初始化用户库失败: %v", err)
	}
	defer userStore.Close()
	handler.SetUserStore(userStore)

	// 配置了redis就用redis做行情缓存，失败回退内存缓存
	if cfg.RedisAddr != "" {
		provider, err := cache.NewRedisProvider(cfg.RedisAddr)
		if err != nil {
			log.Printf("%v，回退内存缓存", err)
		} else {
			defer provider.Close()
			marketdata.SetCacheProvider(provider)
			log.Printf("Redis连接成功: %s", cfg.RedisAddr)
		}
	}

	engine := forecast.NewEngine(forecast.YahooGateway{}, cfg.FXPair, cfg.CurrencySymbol)
	if cfg.ModelEpochs > 0 {
		mc := forecast.DefaultModelConfig()
		mc.Epochs = cfg.ModelEpochs
		engine.SetModelConfig(mc)
	}
	handler.SetEngine(engine)
	handler.SetQuoteCacheTTL(cfg.QuoteCacheTTL)

	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// 配置 CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// 注册路由
	api := r.Group("/api")
	{
		// 注册登录
		api.POST("/auth/signup", handler.Signup)
		api.POST("/auth/login", handler.Login)

		// 登录后可用
		authed := api.Group("", handler.AuthMiddleware())
		{
			authed.GET("/profile", handler.Profile)
			authed.GET("/tickers", handler.GetTickers)
			authed.GET("/tickers/hint", handler.GetTickerHint)
			authed.POST("/predict", handler.Predict)
			authed.POST("/predict/chart", handler.PredictChart)
		}
	}

	log.Printf("服务启动在端口 %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}
