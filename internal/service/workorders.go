package service

import (
	"context"
	"time"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/metrics"
	"example.com/agrotrack/services/fleet/internal/models"

	"github.com/rs/zerolog/log"
)

// NewWorkOrderInput carries the caller-supplied fields of a new work
// order. The identifier is always allocated by the service.
type NewWorkOrderInput struct {
	Client            string         `json:"client" binding:"required"`
	Field             string         `json:"field"`
	TaskType          string         `json:"task_type"`
	Description       string         `json:"description"`
	Priority          string         `json:"priority"`
	PlannedStart      *time.Time     `json:"planned_start"`
	PlannedEnd        *time.Time     `json:"planned_end"`
	AssignedMachinery models.IntList `json:"assigned_machinery"`
	TargetHectares    float64        `json:"target_hectares"`
	TargetHours       float64        `json:"target_hours"`
}

// AddWorkOrder allocates an identifier, persists the order remotely
// when possible, and falls back to local persistence otherwise.
func (s *FleetService) AddWorkOrder(ctx context.Context, in NewWorkOrderInput) (models.WorkOrder, error) {
	now := time.Now()
	wo := models.WorkOrder{
		ID:                s.alloc.Allocate(ctx),
		Client:            in.Client,
		Field:             in.Field,
		TaskType:          in.TaskType,
		Description:       in.Description,
		Priority:          in.Priority,
		Status:            models.StatusPlanned,
		PlannedStart:      in.PlannedStart,
		PlannedEnd:        in.PlannedEnd,
		AssignedMachinery: in.AssignedMachinery,
		TargetHectares:    in.TargetHectares,
		TargetHours:       in.TargetHours,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if wo.Priority == "" {
		wo.Priority = models.PriorityMedium
	}

	err := s.withSpan("workorder.add", func() error {
		saved, err := s.gw.InsertWorkOrder(ctx, &wo)
		if err != nil {
			if offline(err) {
				wo.Origin = models.OriginLocal
				s.state.UpsertWorkOrder(wo)
				s.notifyOffline("work_order", "Orden de trabajo", wo.ID)
				return nil
			}
			return err
		}
		saved.Origin = models.OriginRemote
		s.state.UpsertWorkOrder(*saved)
		wo = *saved
		s.notifySaved("work_order", "Orden de trabajo", wo.ID)
		s.indexWorkOrder(ctx, &wo)
		s.publishEvent(ctx, "work_order.created", wo)
		return nil
	})
	if err != nil {
		return models.WorkOrder{}, err
	}
	return wo, nil
}

// UpdateWorkOrder merges a partial update. Unknown ids are a silent
// no-op per the session contract; the remote not-found answer is
// treated the same way.
func (s *FleetService) UpdateWorkOrder(ctx context.Context, id string, p models.WorkOrderPatch) error {
	return s.withSpan("workorder.update", func() error {
		fields := p.Fields()
		if len(fields) == 0 {
			return nil
		}

		saved, err := s.gw.UpdateWorkOrder(ctx, id, fields)
		switch {
		case err == nil:
			saved.Origin = models.OriginRemote
			s.state.UpsertWorkOrder(*saved)
			s.notifySaved("work_order", "Orden de trabajo", id)
			s.indexWorkOrder(ctx, saved)
			s.publishEvent(ctx, "work_order.updated", saved)
			return nil
		case gateway.IsNotFound(err):
			s.state.PatchWorkOrder(id, p)
			return nil
		case offline(err):
			if !s.state.PatchWorkOrder(id, p) {
				return nil
			}
			s.notifyOffline("work_order", "Orden de trabajo", id)
			return nil
		default:
			return err
		}
	})
}

// DeleteWorkOrder removes a work order. Unknown ids are silent no-ops.
func (s *FleetService) DeleteWorkOrder(ctx context.Context, id string) error {
	return s.withSpan("workorder.delete", func() error {
		err := s.gw.DeleteWorkOrder(ctx, id)
		switch {
		case err == nil, gateway.IsNotFound(err):
			s.state.RemoveWorkOrder(id)
			s.state.Notify(models.NotifySuccess, "Orden de trabajo",
				id+" eliminada", nil)
			s.metrics.RecordOperation("work_order", metrics.OutcomeRemote)
			s.removeWorkOrderIndex(ctx, id)
			s.publishEvent(ctx, "work_order.deleted", map[string]string{"id": id})
			return nil
		case offline(err):
			s.state.RemoveWorkOrder(id)
			s.notifyOffline("work_order", "Orden de trabajo", id)
			return nil
		default:
			return err
		}
	})
}

// SearchWorkOrders performs a free-text search against the index. With
// search disabled it returns the in-memory collection unfiltered.
func (s *FleetService) SearchWorkOrders(ctx context.Context, query string) ([]models.WorkOrder, error) {
	if s.es == nil || query == "" {
		return s.state.WorkOrders(), nil
	}
	docs, err := s.es.SearchWorkOrders(ctx, query)
	if err != nil {
		log.Warn().Err(err).Msg("Work order search failed, serving in-memory collection")
		return s.state.WorkOrders(), nil
	}
	var out []models.WorkOrder
	for _, doc := range docs {
		id, _ := doc["id"].(string)
		if wo, ok := s.state.GetWorkOrder(id); ok {
			out = append(out, wo)
		}
	}
	return out, nil
}

// MarkDelayedWorkOrders flags planned orders whose planned end passed
// without completion. Returns the ids it changed.
func (s *FleetService) MarkDelayedWorkOrders(ctx context.Context) []string {
	now := time.Now()
	var delayed []string
	for _, wo := range s.state.WorkOrders() {
		if wo.Status != models.StatusPlanned && wo.Status != models.StatusInProgress {
			continue
		}
		if wo.PlannedEnd == nil || !wo.PlannedEnd.Before(now) {
			continue
		}
		status := models.StatusDelayed
		if err := s.UpdateWorkOrder(ctx, wo.ID, models.WorkOrderPatch{Status: &status}); err != nil {
			log.Warn().Err(err).Str("id", wo.ID).Msg("Failed to mark work order delayed")
			continue
		}
		delayed = append(delayed, wo.ID)
	}
	return delayed
}

func (s *FleetService) indexWorkOrder(ctx context.Context, wo *models.WorkOrder) {
	if s.es == nil {
		return
	}
	if err := s.es.IndexWorkOrder(ctx, wo); err != nil {
		log.Warn().Err(err).Str("id", wo.ID).Msg("Failed to index work order")
	}
}

func (s *FleetService) removeWorkOrderIndex(ctx context.Context, id string) {
	if s.es == nil {
		return
	}
	if err := s.es.RemoveWorkOrder(ctx, id); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("Failed to remove work order from index")
	}
}
