package handlers

import (
	"net/http"

	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/service"

	"github.com/gin-gonic/gin"
)

// ListSpareParts serves the inventory collection.
func (h *FleetHandler) ListSpareParts(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.State().SpareParts())
}

// CreateSparePart registers an inventory line.
func (h *FleetHandler) CreateSparePart(c *gin.Context) {
	var req service.NewSparePartInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sp, err := h.fleet.AddSparePart(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sp)
}

// UpdateSparePart merges a partial update.
func (h *FleetHandler) UpdateSparePart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch models.SparePartPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fleet.UpdateSparePart(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteSparePart removes an inventory line.
func (h *FleetHandler) DeleteSparePart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleet.DeleteSparePart(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListPartMovements serves the movement ledger.
func (h *FleetHandler) ListPartMovements(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.State().PartMovements())
}

// CreatePartMovement appends a ledger entry and applies its stock
// delta. Outbound movements exceeding the available stock answer 409.
func (h *FleetHandler) CreatePartMovement(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-part-movement")
	defer h.tracer.EndTransaction(txn)

	var req service.NewPartMovementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Type != models.MovementIn && req.Type != models.MovementOut {
		c.JSON(http.StatusBadRequest, gin.H{"error": "movement_type must be entrada or salida"})
		return
	}

	mv, err := h.fleet.AddPartMovement(c.Request.Context(), req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, mv)
}

// DeletePartMovement removes a ledger entry, reversing its stock
// effect.
func (h *FleetHandler) DeletePartMovement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.fleet.DeletePartMovement(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
