package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/octopus12176/tokimeki-checker/internal/api"
	"github.com/octopus12176/tokimeki-checker/internal/api/controller"
	"github.com/octopus12176/tokimeki-checker/internal/config"
	"github.com/octopus12176/tokimeki-checker/internal/infrastructure/database"
	"github.com/octopus12176/tokimeki-checker/internal/infrastructure/llm"
	"github.com/octopus12176/tokimeki-checker/internal/repository"
	"github.com/octopus12176/tokimeki-checker/internal/service"
)

// @title           ときめきチェッカー API
// @version         1.0
// @description     「買うべき？」を6つの質問で判定する節約支援アプリのバックエンド

// @host            localhost:8080
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 请在输入框中输入 "Bearer <token>" (注意 Bearer 和 token 之间有空格)

func main() {
	// 1. 初始化 Logger
	// JSONHandler 方便日志收集，AddSource 显示文件名和行号
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug, // 开发阶段设为 Debug，生产环境改为 Info
	}))
	slog.SetDefault(logger)

	slog.Info("ときめきチェッカー 启动中...")

	conf, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	log.Println("配置加载成功")

	// 2. Infra Initialization
	ctx := context.Background()

	var llmClient llm.Provider
	switch conf.LLM.Provider {
	case "gemini":
		client, err := llm.NewGeminiClient(ctx, conf.Gemini.APIKey, conf.Gemini.Model)
		if err != nil {
			log.Fatalf("Failed to init Gemini client: %v", err)
		}
		llmClient = client
	default:
		llmClient = llm.NewOpenAIClient(conf.OpenAI.APIKey, conf.OpenAI.BaseURL, conf.OpenAI.Model)
	}

	// 3. Layer Wiring (依赖注入)
	// DSN 没配就全走内存仓储，方便本地起服务调前端
	var (
		checkRepo   repository.CheckRepo
		savingsRepo repository.SavingsRepo
		userRepo    repository.UserRepo
	)
	if conf.Database.DSN != "" {
		db := database.NewMySQLConnection(conf.Database.DSN) // 这里会自动建表
		checkRepo = repository.NewCheckRepo(db)
		savingsRepo = repository.NewSavingsRepo(db)
		userRepo = repository.NewUserRepo(db)
	} else {
		slog.Warn("database.dsn 未配置，使用内存仓储（重启即丢）")
		mem := repository.NewMemoryStore()
		checkRepo = mem
		savingsRepo = mem
		userRepo = mem
	}

	authSvc := service.NewAuthService(userRepo, conf.Google.ClientID, conf.Auth.AllowedEmails)
	checkSvc := service.NewCheckService(llmClient, checkRepo)
	historySvc := service.NewHistoryService(checkRepo, savingsRepo)
	savingsSvc := service.NewSavingsService(checkRepo, savingsRepo)

	// 4. Server Start
	if conf.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	api.RegisterRoutes(r,
		conf.JWT.Secret,
		controller.NewAuthController(authSvc),
		controller.NewCheckController(checkSvc),
		controller.NewHistoryController(historySvc),
		controller.NewSavingsController(savingsSvc),
	)

	slog.Info("ときめきチェッカー Web Server 启动中", "port", conf.Server.Port)
	if err := r.Run(conf.Server.Port); err != nil {
		slog.Error("服务器启动失败", "error", err)
	}
}
