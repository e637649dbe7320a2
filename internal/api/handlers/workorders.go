package handlers

import (
	"net/http"

	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ListWorkOrders serves the work-order collection, optionally filtered
// by a free-text query.
func (h *FleetHandler) ListWorkOrders(c *gin.Context) {
	if q := c.Query("q"); q != "" {
		orders, err := h.fleet.SearchWorkOrders(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}
	c.JSON(http.StatusOK, h.fleet.State().WorkOrders())
}

// CreateWorkOrder registers a work order with a service-allocated
// identifier.
func (h *FleetHandler) CreateWorkOrder(c *gin.Context) {
	txn := h.tracer.StartTransaction("api-create-work-order")
	defer h.tracer.EndTransaction(txn)

	var req service.NewWorkOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error().Err(err).Msg("Invalid work order request body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wo, err := h.fleet.AddWorkOrder(c.Request.Context(), req)
	if err != nil {
		h.tracer.RecordError(txn, err)
		respondError(c, err)
		return
	}
	h.tracer.AddAttribute(txn, "work_order_id", wo.ID)
	c.JSON(http.StatusCreated, wo)
}

// UpdateWorkOrder merges a partial update.
func (h *FleetHandler) UpdateWorkOrder(c *gin.Context) {
	var patch models.WorkOrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.fleet.UpdateWorkOrder(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// DeleteWorkOrder removes a work order.
func (h *FleetHandler) DeleteWorkOrder(c *gin.Context) {
	if err := h.fleet.DeleteWorkOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
