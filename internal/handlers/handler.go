package handlers

import (
	"net/http"

	"plant_buddy/internal/logger"
	"plant_buddy/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options carries the optional surfaces mounted next to the API.
type Options struct {
	UploadsDir string
	Metrics    http.Handler
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if h.opts.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.opts.Metrics))
	}
	if h.opts.UploadsDir != "" {
		router.Static("/uploads", h.opts.UploadsDir)
	}

	h.registerAPIRoutes(router)

	// Unread alert feed over WebSocket, same port.
	router.GET("/ws/alerts", h.wsAlerts)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", h.health)
		h.registerPlantRoutes(api)
		h.registerReminderRoutes(api)
		h.registerAlertRoutes(api)
		h.registerCareLogRoutes(api)
	}
}

func (h *Handler) registerPlantRoutes(api *gin.RouterGroup) {
	plants := api.Group("/plants")
	{
		plants.POST("", h.createPlant)
		plants.GET("", h.listPlants)
		plants.GET("/:id", h.getPlant)
		plants.DELETE("/:id", h.deletePlant)
		// Body example: {"status":"harvested"}
		plants.PATCH("/:id/status", h.setPlantStatus)
	}
}

func (h *Handler) registerReminderRoutes(api *gin.RouterGroup) {
	reminders := api.Group("/reminders")
	{
		reminders.POST("", h.createReminder)
		reminders.GET("", h.listReminders)
		reminders.DELETE("/:id", h.deleteReminder)
	}
}

func (h *Handler) registerAlertRoutes(api *gin.RouterGroup) {
	alerts := api.Group("/alerts")
	{
		alerts.GET("", h.listAlerts)
		alerts.POST("/:id/read", h.markAlertRead)
	}
}

func (h *Handler) registerCareLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.POST("/upload", bodyLimit(maxUploadBytes), h.uploadCareLog)
		logs.GET("/plant/:plantId", h.listCareLogs)
	}
}
