package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListNotifications serves the notification feed, newest first.
func (h *FleetHandler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.fleet.State().Notifications(),
		"unread":        h.fleet.State().UnreadNotifications(),
	})
}

// MarkNotificationRead marks one notification as read.
func (h *FleetHandler) MarkNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if !h.fleet.State().MarkNotificationRead(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// MarkAllNotificationsRead marks the whole feed as read.
func (h *FleetHandler) MarkAllNotificationsRead(c *gin.Context) {
	h.fleet.State().MarkAllNotificationsRead()
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetMetrics serves the operation counters.
func (h *FleetHandler) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.fleet.Metrics().Snapshot())
}
