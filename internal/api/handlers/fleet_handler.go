// Package handlers exposes the session over HTTP. Read endpoints serve
// the in-memory collections; mutating endpoints run through the
// synchronization controller, so a degraded remote store answers with
// the locally persisted record instead of an error.
package handlers

import (
	"net/http"

	"example.com/agrotrack/services/fleet/internal/service"
	"example.com/agrotrack/services/fleet/internal/tracing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// FleetHandler handles fleet-related HTTP requests
type FleetHandler struct {
	fleet  *service.FleetService
	tracer tracing.Tracer
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(fleet *service.FleetService, tracer tracing.Tracer) *FleetHandler {
	return &FleetHandler{fleet: fleet, tracer: tracer}
}

// RegisterRoutes registers the handler routes
func (h *FleetHandler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	v1.GET("/machinery", h.ListMachinery)
	v1.POST("/machinery", h.CreateMachinery)
	v1.PATCH("/machinery/:id", h.UpdateMachinery)
	v1.DELETE("/machinery/:id", h.DeleteMachinery)

	v1.GET("/work-orders", h.ListWorkOrders)
	v1.POST("/work-orders", h.CreateWorkOrder)
	v1.PATCH("/work-orders/:id", h.UpdateWorkOrder)
	v1.DELETE("/work-orders/:id", h.DeleteWorkOrder)

	v1.GET("/maintenance", h.ListMaintenance)
	v1.POST("/maintenance", h.CreateMaintenance)
	v1.PUT("/maintenance/:id", h.UpdateMaintenance)
	v1.DELETE("/maintenance/:id", h.DeleteMaintenance)

	v1.GET("/fuel-loads", h.ListFuelLoads)
	v1.POST("/fuel-loads", h.CreateFuelLoad)
	v1.PATCH("/fuel-loads/:id", h.UpdateFuelLoad)
	v1.DELETE("/fuel-loads/:id", h.DeleteFuelLoad)

	v1.GET("/spare-parts", h.ListSpareParts)
	v1.POST("/spare-parts", h.CreateSparePart)
	v1.PATCH("/spare-parts/:id", h.UpdateSparePart)
	v1.DELETE("/spare-parts/:id", h.DeleteSparePart)

	v1.GET("/part-movements", h.ListPartMovements)
	v1.POST("/part-movements", h.CreatePartMovement)
	v1.DELETE("/part-movements/:id", h.DeletePartMovement)

	v1.GET("/incidents", h.ListIncidents)
	v1.POST("/incidents", h.CreateIncident)
	v1.PATCH("/incidents/:id", h.UpdateIncident)

	v1.GET("/users", h.ListUsers)
	v1.POST("/users", h.CreateUser)
	v1.PATCH("/users/:id", h.UpdateUser)
	v1.DELETE("/users/:id", h.DeleteUser)

	v1.GET("/notifications", h.ListNotifications)
	v1.POST("/notifications/:id/read", h.MarkNotificationRead)
	v1.POST("/notifications/read-all", h.MarkAllNotificationsRead)

	v1.GET("/metrics", h.GetMetrics)
}

// respondError maps service errors to HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
