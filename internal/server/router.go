package server

import (
	"github.com/gin-gonic/gin"
)

type Config struct {
	RecordHandler *RecordHandler
}

func NewRouter(cfg *Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api := router.Group("/v1")
	registerRecordRoutes(api, cfg.RecordHandler)

	return router
}

func registerRecordRoutes(router *gin.RouterGroup, h *RecordHandler) {
	router.GET("/health", h.GetHealth)
	router.GET("/records/latest", h.GetLatest)
	router.GET("/opportunities", h.GetOpportunities)
}
