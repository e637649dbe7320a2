package handlers

import (
	"net/http"

	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/service"

	"github.com/gin-gonic/gin"
)

// ListUsers serves the user collection.
func (h *FleetHandler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.State().Users())
}

// CreateUser registers an account.
func (h *FleetHandler) CreateUser(c *gin.Context) {
	var req service.NewUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.fleet.AddUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// UpdateUser merges a partial update.
func (h *FleetHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch models.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fleet.UpdateUser(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteUser removes an account.
func (h *FleetHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleet.DeleteUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
