package handlers

import (
	"net/http"

	"example.com/agrotrack/services/fleet/internal/service"

	"github.com/gin-gonic/gin"
)

// ListMaintenance serves the maintenance collection.
func (h *FleetHandler) ListMaintenance(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.State().Maintenance())
}

// CreateMaintenance registers a maintenance event.
func (h *FleetHandler) CreateMaintenance(c *gin.Context) {
	var req service.NewMaintenanceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.fleet.AddMaintenance(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMaintenance replaces the mutable fields of a maintenance event.
func (h *FleetHandler) UpdateMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateMaintenanceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fleet.UpdateMaintenance(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteMaintenance removes a maintenance event.
func (h *FleetHandler) DeleteMaintenance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleet.DeleteMaintenance(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
