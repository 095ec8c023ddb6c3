package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/assistant"
	"github.com/julin-realestate/realestate-api/internal/auth"
	"github.com/julin-realestate/realestate-api/internal/config"
	"github.com/julin-realestate/realestate-api/internal/database"
	"github.com/julin-realestate/realestate-api/internal/handler"
	"github.com/julin-realestate/realestate-api/internal/logger"
	"github.com/julin-realestate/realestate-api/internal/metrics"
	"github.com/julin-realestate/realestate-api/internal/middleware"
	"github.com/julin-realestate/realestate-api/internal/queue"
	"github.com/julin-realestate/realestate-api/internal/repository"
	"github.com/julin-realestate/realestate-api/internal/router"
	"github.com/julin-realestate/realestate-api/internal/service"
	"github.com/julin-realestate/realestate-api/internal/storage"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- MySQL: writer pool for admin writes and migrations, reader pool for public reads ----
	writer, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("open writer database", zap.Error(err))
	}
	defer writer.Close()
	if err := database.Migrate(ctx, writer, zl); err != nil {
		zl.Fatal("migrate", zap.Error(err))
	}
	reader, err := database.Open(cfg.DBReadUser, cfg.DBReadPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zl.Fatal("open reader database", zap.Error(err))
	}
	defer reader.Close()

	readListings := repository.NewListingRepo(reader)
	writeListings := repository.NewListingRepo(writer)
	blogRepo := repository.NewBlogRepo(writer)
	leadRepo := repository.NewLeadRepo(writer)

	// ---- optional collaborators ----
	var images service.ImageStore
	if cfg.Storage.Enabled() {
		store, err := storage.New(ctx, cfg.Storage, zl)
		if err != nil {
			zl.Warn("object storage unavailable, uploads disabled", zap.Error(err))
		} else {
			images = store
		}
	}

	var chatStore service.ChatStore
	if cfg.Mongo.URI != "" {
		mc, err := database.OpenMongo(ctx, cfg.Mongo.URI, cfg.Mongo.ConnectTimeout)
		if err != nil {
			zl.Warn("mongo unavailable, chat history disabled", zap.Error(err))
		} else {
			defer func() { _ = mc.Disconnect(context.Background()) }()
			repo := repository.NewChatRepo(mc, cfg.Mongo.Database)
			if err := repo.EnsureIndexes(ctx); err != nil {
				zl.Warn("chat index not created", zap.Error(err))
			}
			chatStore = repo
		}
	}

	var llm service.Assistant
	if c := assistant.New(cfg.Assistant); c != nil {
		llm = c
	} else {
		zl.Info("OPENAI_API_KEY not set, chatbot disabled")
	}

	var provider handler.OAuthProvider
	if p := auth.NewGoogleProvider(cfg.Google); p != nil {
		provider = p
	} else {
		zl.Warn("google sign-in not configured, admin login disabled")
	}
	if len(cfg.AdminEmails) == 0 {
		zl.Warn("ADMIN_EMAILS is empty, every admin request will be rejected")
	}

	m := metrics.New()
	rdb := config.NewRedisClient(zl)
	if rdb != nil {
		defer rdb.Close()
	}
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb, m, zl)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, zl)

	// ---- services and handlers ----
	blog := service.NewBlogService(blogRepo, images, zl)
	leads := service.NewLeadService(leadRepo, writeListings, queue.NewPublisher(cfg.AMQPURL, zl), m.LeadCreated, zl)
	chat := service.NewChatbotService(chatStore, llm, readListings, zl)

	publicH := handler.NewPublicHandler(service.NewPublicReader(readListings), service.NewBlogService(repository.NewBlogRepo(reader), nil, zl), zl)
	adminH := handler.NewAdminHandler(service.NewAdminWriter(writeListings, images, zl), blog, leads, images, zl)
	leadH := handler.NewLeadHandler(leads, zl)
	chatH := handler.NewChatbotHandler(chat, zl)
	authH := handler.NewAuthHandler(provider, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProd(), zl)

	e := router.New(middleware.GuardConfig{
		Prefixes:  cfg.AdminPathPrefixes,
		Secret:    cfg.SessionSecret,
		AllowList: cfg.AdminEmails,
	}, m, zl)
	router.RegisterRoutes(e, m)
	router.RegisterAuth(e, authH)
	router.RegisterPublic(e, publicH, leadH, chatH, limiter, cache, cfg.SiteURL)
	router.RegisterAdmin(e, adminH, leadH, chatH, cache)

	addr := ":" + cfg.Port
	go func() {
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := e.Shutdown(sctx); err != nil {
		zl.Error("graceful shutdown failed", zap.Error(err))
	}
}
