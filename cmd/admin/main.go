package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"clients_admin/internal/admin"
	"clients_admin/internal/apiclient"
	"clients_admin/internal/config"
	"clients_admin/internal/web"
	"clients_admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	utils.LoadDotEnv()

	cfg, err := config.NewConfig()
	if err != nil {
		utils.InitLogger("info")
		utils.LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	utils.InitLogger(cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	api := apiclient.New(cfg.Admin.APIBaseURL, cfg.Admin.APITimeout)
	broker := admin.NewBroker(16)

	handler, err := web.NewHandler(api, broker, cfg.Admin)
	if err != nil {
		utils.LogError(err, "Failed to parse admin templates")
		os.Exit(1)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), utils.GinLogger())
	handler.Register(engine)

	// Event streams end when baseCtx is cancelled on shutdown.
	baseCtx, stopStreams := context.WithCancel(context.Background())
	defer stopStreams()

	// WriteTimeout stays unset: /events holds its response open.
	srv := &http.Server{
		Addr:        ":" + cfg.Admin.Port,
		Handler:     engine,
		ReadTimeout: cfg.HTTP.ReadTimeout,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(stopStreams)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start admin server")
			os.Exit(1)
		}
	}()
	utils.LogInfo("Admin UI starting", map[string]interface{}{"port": cfg.Admin.Port, "api_base_url": cfg.Admin.APIBaseURL})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down admin server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.LogError(err, "Admin server forced to shutdown")
		return
	}
	utils.LogInfo("Admin server stopped")
}
