package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"clients_admin/internal/config"
	"clients_admin/internal/database"
	"clients_admin/internal/router"
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

	db, err := database.InitDB(cfg.Postgres)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"host": cfg.Postgres.Host, "db": cfg.Postgres.DBName})

	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, db, cfg.CORS)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			os.Exit(1)
		}
	}()
	utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.HTTP.Port, "api": "/api/clients"})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
		return
	}
	utils.LogInfo("Server stopped")
}
