package handlers

import (
	"net/http"

	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/service"

	"github.com/gin-gonic/gin"
)

// ListIncidents serves the incident collection.
func (h *FleetHandler) ListIncidents(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.State().Incidents())
}

// CreateIncident registers an incident report.
func (h *FleetHandler) CreateIncident(c *gin.Context) {
	var req service.NewIncidentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inc, err := h.fleet.AddIncident(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inc)
}

// UpdateIncident merges a partial update.
func (h *FleetHandler) UpdateIncident(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch models.IncidentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fleet.UpdateIncident(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
