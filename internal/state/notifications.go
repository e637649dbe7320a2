package state

import (
	"time"

	"example.com/agrotrack/services/fleet/internal/models"

	"github.com/google/uuid"
)

// maxNotifications caps the in-memory feed.
const maxNotifications = 100

// Notify prepends a notification to the feed and returns it.
func (s *State) Notify(ntype, title, message string, link *string) models.Notification {
	n := models.Notification{
		ID:        uuid.New(),
		Type:      ntype,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
		Link:      link,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	feed := append([]models.Notification{n}, s.notifications...)
	if len(feed) > maxNotifications {
		feed = feed[:maxNotifications]
	}
	s.notifications = feed
	return n
}

// Notifications returns a copy of the feed, newest first.
func (s *State) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Notification(nil), s.notifications...)
}

// MarkNotificationRead marks one notification as read. Unknown ids are
// silent no-ops.
func (s *State) MarkNotificationRead(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.notifications {
		if n.ID == id {
			next := append([]models.Notification(nil), s.notifications...)
			next[i].Read = true
			s.notifications = next
			return true
		}
	}
	return false
}

// MarkAllNotificationsRead marks the whole feed as read.
func (s *State) MarkAllNotificationsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := append([]models.Notification(nil), s.notifications...)
	for i := range next {
		next[i].Read = true
	}
	s.notifications = next
}

// UnreadNotifications counts unread feed items.
func (s *State) UnreadNotifications() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// SeedNotifications installs the small fixed set shown after a fresh
// start. The feed is otherwise transient.
func (s *State) SeedNotifications() {
	s.Notify(models.NotifyInfo, "Sesión iniciada", "El servicio de flota está en línea", nil)
}
