package handlers

import (
	"net/http"
	"strconv"

	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/service"

	"github.com/gin-gonic/gin"
)

// pathID parses the numeric :id path parameter.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ListMachinery serves the machinery collection.
func (h *FleetHandler) ListMachinery(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.State().Machinery())
}

// CreateMachinery registers a machine.
func (h *FleetHandler) CreateMachinery(c *gin.Context) {
	var req service.NewMachineryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.fleet.AddMachinery(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// UpdateMachinery merges a partial update.
func (h *FleetHandler) UpdateMachinery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch models.MachineryPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fleet.UpdateMachinery(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteMachinery removes a machine.
func (h *FleetHandler) DeleteMachinery(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleet.DeleteMachinery(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
