package main

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kmorozova/answerboard/config"
	"github.com/kmorozova/answerboard/database"
	_ "github.com/kmorozova/answerboard/docs" // Swagger docs - auto-generated
	"github.com/kmorozova/answerboard/internal/controller"
	studentctrl "github.com/kmorozova/answerboard/internal/controller/student"
	teacherctrl "github.com/kmorozova/answerboard/internal/controller/teacher"
	"github.com/kmorozova/answerboard/internal/logger"
	"github.com/kmorozova/answerboard/internal/model"
	"github.com/kmorozova/answerboard/internal/repository"
	"github.com/kmorozova/answerboard/internal/service"
	"github.com/kmorozova/answerboard/internal/store"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Answerboard API
// @version 1.0
// @description API for submitting and reviewing student answers, with manual and automatic evaluation.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB (nil in memory mode)
			NewGinEngine,
			store.NewAnswerStore,
			store.NewUserStore,
		),

		// Repositories Layer
		fx.Provide(
			NewAnswerRepository,
			NewUserRepository,
		),

		// Services Layer
		fx.Provide(
			NewScorer,
			service.NewAnswerService,
			service.NewAuthService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewAuthController,
			func(svc service.AnswerService, cfg *config.Config) *studentctrl.AnswerController {
				return studentctrl.NewAnswerController(svc, cfg.JWT.Secret)
			},
			func(svc service.AnswerService, cfg *config.Config) *teacherctrl.AnswerController {
				return teacherctrl.NewAnswerController(svc, cfg.JWT.Secret)
			},
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(SeedDemoData),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

// NewAnswerRepository selects the answer backend: the in-memory store by
// default, gorm on Postgres when configured.
func NewAnswerRepository(cfg *config.Config, db *gorm.DB, answers *store.AnswerStore) repository.AnswerRepository {
	if cfg.Store.Driver == "postgres" {
		return repository.NewAnswerRepository(db)
	}
	return answers
}

func NewUserRepository(cfg *config.Config, db *gorm.DB, users *store.UserStore) repository.UserRepository {
	if cfg.Store.Driver == "postgres" {
		return repository.NewUserRepository(db)
	}
	return users
}

// NewScorer picks the grading engine: Gemini when an API key is configured,
// otherwise the simulated random scorer.
func NewScorer(cfg *config.Config) (service.Scorer, error) {
	if cfg.GeminiApiKey != "" {
		scorer, err := service.NewGeminiScorer(cfg)
		if err != nil {
			return nil, err
		}
		return scorer, nil
	}
	return service.NewRandomScorer(rand.New(rand.NewSource(time.Now().UnixNano()))), nil
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Route gin's request log through zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *controller.AuthController,
	studentCtrl *studentctrl.AnswerController,
	teacherCtrl *teacherctrl.AnswerController,
) {
	authCtrl.RegisterRoutes(router)
	studentCtrl.RegisterRoutes(router)
	teacherCtrl.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Answerboard API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(cfg *config.Config, db *gorm.DB) error {
	if cfg.Store.Driver != "postgres" {
		return nil
	}
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Answer{},
		&model.RegisteredUser{},
	); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

func SeedDemoData(cfg *config.Config, answers *store.AnswerStore) {
	if cfg.Store.Driver == "memory" && cfg.SeedDemoData {
		store.Seed(answers)
	}
}
