package router

import (
	"database/sql"

	"clients_admin/internal/config"
	"clients_admin/internal/handlers"
	"clients_admin/internal/repositories"
	"clients_admin/internal/services"
	"clients_admin/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the REST backend.
func Setup(engine *gin.Engine, db *sql.DB, cfg config.CORSConfig) {
	engine.Use(utils.GinLogger())
	engine.Use(corsMiddleware(cfg))

	clientRepo := repositories.NewClientRepository(db)
	clientService := services.NewClientService(clientRepo, db)
	clientHandler := handlers.NewClientHandler(clientService)

	api := engine.Group("/api")
	SetupClientRoutes(api, clientHandler)
}

func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", utils.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{utils.RequestIDHeader}
	return cors.New(corsConfig)
}
