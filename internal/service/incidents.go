package service

import (
	"context"
	"fmt"
	"time"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/models"
)

// NewIncidentInput carries the caller-supplied fields of an incident
// report.
type NewIncidentInput struct {
	MachineryID int       `json:"machinery_id" binding:"required"`
	WorkOrderID *string   `json:"work_order_id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description" binding:"required"`
	Severity    string    `json:"severity"`
	ReportedBy  string    `json:"reported_by"`
}

// AddIncident records an incident report.
func (s *FleetService) AddIncident(ctx context.Context, in NewIncidentInput) (models.Incident, error) {
	inc := models.Incident{
		MachineryID: in.MachineryID,
		WorkOrderID: in.WorkOrderID,
		Date:        in.Date,
		Type:        in.Type,
		Description: in.Description,
		Severity:    in.Severity,
		Status:      "abierta",
		ReportedBy:  in.ReportedBy,
		CreatedAt:   time.Now(),
	}
	if inc.Date.IsZero() {
		inc.Date = inc.CreatedAt
	}

	err := s.withSpan("incident.add", func() error {
		saved, err := s.gw.InsertIncident(ctx, &inc)
		if err != nil {
			if offline(err) {
				inc.Origin = models.OriginLocal
				inc = s.state.AddIncidentLocal(inc)
				s.notifyOffline("incident", "Incidente", fmt.Sprintf("incidente %d", inc.ID))
				return nil
			}
			return err
		}
		saved.Origin = models.OriginRemote
		s.state.UpsertIncident(*saved)
		inc = *saved
		s.notifySaved("incident", "Incidente", fmt.Sprintf("incidente %d", inc.ID))
		s.publishEvent(ctx, "incident.created", inc)
		return nil
	})
	if err != nil {
		return models.Incident{}, err
	}
	return inc, nil
}

// UpdateIncident merges a partial update, typically a status change
// when an incident is resolved. Unknown ids are silent no-ops.
func (s *FleetService) UpdateIncident(ctx context.Context, id int, p models.IncidentPatch) error {
	return s.withSpan("incident.update", func() error {
		fields := p.Fields()
		if len(fields) == 0 {
			return nil
		}

		saved, err := s.gw.UpdateIncident(ctx, id, fields)
		switch {
		case err == nil:
			saved.Origin = models.OriginRemote
			s.state.UpsertIncident(*saved)
			s.notifySaved("incident", "Incidente", fmt.Sprintf("incidente %d", id))
			return nil
		case gateway.IsNotFound(err):
			s.state.PatchIncident(id, p)
			return nil
		case offline(err):
			if !s.state.PatchIncident(id, p) {
				return nil
			}
			s.notifyOffline("incident", "Incidente", fmt.Sprintf("incidente %d", id))
			return nil
		default:
			return err
		}
	})
}
