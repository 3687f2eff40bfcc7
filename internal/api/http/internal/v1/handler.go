package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/rubbishit/backend/internal/config"
	"github.com/rubbishit/backend/internal/service"
)

// @title Rubbishit Journal API
// @version 1.0
// @description Email verified registration and session login

// @BasePath /api

type Handler struct {
	services *service.Services
	config   *config.Config
}

func NewHandler(
	services *service.Services,
	config *config.Config,
) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	h.initAuthRoutes(api)
}
