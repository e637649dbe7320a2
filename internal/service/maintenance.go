package service

import (
	"context"
	"fmt"
	"time"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/models"
)

// NewMaintenanceInput carries the caller-supplied fields of a
// maintenance event.
type NewMaintenanceInput struct {
	MachineryID int                      `json:"machinery_id" binding:"required"`
	Date        time.Time                `json:"date"`
	Type        string                   `json:"type" binding:"required"`
	Status      string                   `json:"status"`
	Notes       string                   `json:"notes"`
	Items       []models.MaintenanceItem `json:"items"`
	PartsUsed   []models.MaintenancePart `json:"parts_used"`
}

// maintenanceCost sums the item costs. The stored Cost field is always
// derived from the items, never caller-supplied.
func maintenanceCost(items []models.MaintenanceItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Cost
	}
	return total
}

// AddMaintenance records a maintenance event for a machine.
func (s *FleetService) AddMaintenance(ctx context.Context, in NewMaintenanceInput) (models.Maintenance, error) {
	now := time.Now()
	m := models.Maintenance{
		MachineryID: in.MachineryID,
		Date:        in.Date,
		Type:        in.Type,
		Status:      in.Status,
		Notes:       in.Notes,
		Items:       in.Items,
		PartsUsed:   in.PartsUsed,
		Cost:        maintenanceCost(in.Items),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if m.Status == "" {
		m.Status = "pendiente"
	}
	if m.Date.IsZero() {
		m.Date = now
	}

	err := s.withSpan("maintenance.add", func() error {
		saved, err := s.gw.InsertMaintenance(ctx, &m)
		if err != nil {
			if offline(err) {
				m.Origin = models.OriginLocal
				m = s.state.AddMaintenanceLocal(m)
				s.notifyOffline("maintenance", "Mantención", fmt.Sprintf("mantención %d", m.ID))
				return nil
			}
			return err
		}
		saved.Origin = models.OriginRemote
		s.state.UpsertMaintenance(*saved)
		m = *saved
		s.notifySaved("maintenance", "Mantención", fmt.Sprintf("mantención %d", m.ID))
		s.publishEvent(ctx, "maintenance.created", m)
		return nil
	})
	if err != nil {
		return models.Maintenance{}, err
	}
	return m, nil
}

// UpdateMaintenanceInput is a full replacement of the mutable fields of
// a maintenance event. Items and parts are replaced wholesale; the cost
// is recomputed from the new items.
type UpdateMaintenanceInput struct {
	Date      *time.Time                `json:"date"`
	Type      *string                   `json:"type"`
	Status    *string                   `json:"status"`
	Notes     *string                   `json:"notes"`
	Items     *[]models.MaintenanceItem `json:"items"`
	PartsUsed *[]models.MaintenancePart `json:"parts_used"`
}

// UpdateMaintenance merges the update and saves the complete record so
// child item and part rows stay consistent. Unknown ids are silent
// no-ops.
func (s *FleetService) UpdateMaintenance(ctx context.Context, id int, in UpdateMaintenanceInput) error {
	return s.withSpan("maintenance.update", func() error {
		current, ok := s.state.GetMaintenance(id)
		if !ok {
			return nil
		}

		if in.Date != nil {
			current.Date = *in.Date
		}
		if in.Type != nil {
			current.Type = *in.Type
		}
		if in.Status != nil {
			current.Status = *in.Status
		}
		if in.Notes != nil {
			current.Notes = *in.Notes
		}
		if in.Items != nil {
			current.Items = *in.Items
		}
		if in.PartsUsed != nil {
			current.PartsUsed = *in.PartsUsed
		}
		current.Cost = maintenanceCost(current.Items)
		current.UpdatedAt = time.Now()

		saved, err := s.gw.SaveMaintenance(ctx, &current)
		switch {
		case err == nil:
			saved.Origin = models.OriginRemote
			s.state.UpsertMaintenance(*saved)
			s.notifySaved("maintenance", "Mantención", fmt.Sprintf("mantención %d", id))
			return nil
		case gateway.IsNotFound(err), offline(err):
			current.Origin = models.OriginLocal
			s.state.UpsertMaintenance(current)
			s.notifyOffline("maintenance", "Mantención", fmt.Sprintf("mantención %d", id))
			return nil
		default:
			return err
		}
	})
}

// DeleteMaintenance removes a maintenance event with its items and
// parts. Unknown ids are silent no-ops.
func (s *FleetService) DeleteMaintenance(ctx context.Context, id int) error {
	return s.withSpan("maintenance.delete", func() error {
		err := s.gw.DeleteMaintenance(ctx, id)
		switch {
		case err == nil, gateway.IsNotFound(err):
			s.state.RemoveMaintenance(id)
			s.notifySaved("maintenance", "Mantención", fmt.Sprintf("mantención %d eliminada", id))
			return nil
		case offline(err):
			s.state.RemoveMaintenance(id)
			s.notifyOffline("maintenance", "Mantención", fmt.Sprintf("mantención %d", id))
			return nil
		default:
			return err
		}
	})
}
