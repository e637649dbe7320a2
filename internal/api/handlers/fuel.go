package handlers

import (
	"net/http"

	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/service"

	"github.com/gin-gonic/gin"
)

// ListFuelLoads serves the fuel-load collection.
func (h *FleetHandler) ListFuelLoads(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.State().FuelLoads())
}

// CreateFuelLoad registers a fuel dispensing event.
func (h *FleetHandler) CreateFuelLoad(c *gin.Context) {
	var req service.NewFuelLoadInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fl, err := h.fleet.AddFuelLoad(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fl)
}

// UpdateFuelLoad merges a partial update.
func (h *FleetHandler) UpdateFuelLoad(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch models.FuelLoadPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fleet.UpdateFuelLoad(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteFuelLoad removes a fuel load.
func (h *FleetHandler) DeleteFuelLoad(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleet.DeleteFuelLoad(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
