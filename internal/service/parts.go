package service

import (
	"context"
	"fmt"
	"time"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/metrics"
	"example.com/agrotrack/services/fleet/internal/models"
)

// NewSparePartInput carries the caller-supplied fields of an inventory
// line.
type NewSparePartInput struct {
	Description         string  `json:"description" binding:"required"`
	Category            string  `json:"category"`
	CurrentStock        int     `json:"current_stock"`
	MinimumStock        int     `json:"minimum_stock"`
	UnitCost            float64 `json:"unit_cost"`
	Supplier            string  `json:"supplier"`
	CompatibleMachinery *int    `json:"compatible_machinery"`
}

// AddSparePart registers an inventory line.
func (s *FleetService) AddSparePart(ctx context.Context, in NewSparePartInput) (models.SparePart, error) {
	now := time.Now()
	sp := models.SparePart{
		Description:         in.Description,
		Category:            in.Category,
		CurrentStock:        in.CurrentStock,
		MinimumStock:        in.MinimumStock,
		UnitCost:            in.UnitCost,
		Supplier:            in.Supplier,
		CompatibleMachinery: in.CompatibleMachinery,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err := s.withSpan("sparepart.add", func() error {
		saved, err := s.gw.InsertSparePart(ctx, &sp)
		if err != nil {
			if offline(err) {
				sp.Origin = models.OriginLocal
				sp = s.state.AddSparePartLocal(sp)
				s.notifyOffline("spare_part", "Repuesto", sp.Description)
				return nil
			}
			return err
		}
		saved.Origin = models.OriginRemote
		s.state.UpsertSparePart(*saved)
		sp = *saved
		s.notifySaved("spare_part", "Repuesto", sp.Description)
		return nil
	})
	if err != nil {
		return models.SparePart{}, err
	}
	return sp, nil
}

// UpdateSparePart merges a partial update. Direct stock edits bypass
// the movement ledger and the non-negative invariant; movements are the
// audited path. Unknown ids are silent no-ops.
func (s *FleetService) UpdateSparePart(ctx context.Context, id int, p models.SparePartPatch) error {
	return s.withSpan("sparepart.update", func() error {
		fields := p.Fields()
		if len(fields) == 0 {
			return nil
		}

		saved, err := s.gw.UpdateSparePart(ctx, id, fields)
		switch {
		case err == nil:
			saved.Origin = models.OriginRemote
			s.state.UpsertSparePart(*saved)
			s.notifySaved("spare_part", "Repuesto", saved.Description)
			return nil
		case gateway.IsNotFound(err):
			s.state.PatchSparePart(id, p)
			return nil
		case offline(err):
			if !s.state.PatchSparePart(id, p) {
				return nil
			}
			s.notifyOffline("spare_part", "Repuesto", fmt.Sprintf("repuesto %d", id))
			return nil
		default:
			return err
		}
	})
}

// DeleteSparePart removes an inventory line. Its movement history stays
// in the ledger. Unknown ids are silent no-ops.
func (s *FleetService) DeleteSparePart(ctx context.Context, id int) error {
	return s.withSpan("sparepart.delete", func() error {
		err := s.gw.DeleteSparePart(ctx, id)
		switch {
		case err == nil, gateway.IsNotFound(err):
			s.state.RemoveSparePart(id)
			s.notifySaved("spare_part", "Repuesto", fmt.Sprintf("repuesto %d eliminado", id))
			return nil
		case offline(err):
			s.state.RemoveSparePart(id)
			s.notifyOffline("spare_part", "Repuesto", fmt.Sprintf("repuesto %d", id))
			return nil
		default:
			return err
		}
	})
}

// NewPartMovementInput carries the caller-supplied fields of one stock
// movement.
type NewPartMovementInput struct {
	SparePartID int       `json:"spare_part_id" binding:"required"`
	Type        string    `json:"movement_type" binding:"required"`
	Quantity    int       `json:"quantity" binding:"required"`
	Reason      string    `json:"reason"`
	WorkOrderID *string   `json:"work_order_id"`
	Operator    string    `json:"operator"`
	Date        time.Time `json:"date"`
}

// stockDelta is the signed effect of a movement on current stock.
func stockDelta(movementType string, quantity int) int {
	if movementType == models.MovementOut {
		return -quantity
	}
	return quantity
}

// AddPartMovement appends a ledger entry and applies its stock delta to
// the part. An outbound movement that would drive stock negative is
// rejected before any write, locally or remotely.
func (s *FleetService) AddPartMovement(ctx context.Context, in NewPartMovementInput) (models.PartMovement, error) {
	part, ok := s.state.GetSparePart(in.SparePartID)
	if !ok {
		return models.PartMovement{}, ErrNotFound
	}

	delta := stockDelta(in.Type, in.Quantity)
	newStock := part.CurrentStock + delta
	if newStock < 0 {
		s.state.Notify(models.NotifyError, "Movimiento rechazado",
			fmt.Sprintf("Stock insuficiente de %s: %d disponibles, %d solicitados",
				part.Description, part.CurrentStock, in.Quantity), nil)
		s.metrics.RecordOperation("part_movement", metrics.OutcomeRejected)
		return models.PartMovement{}, ErrInsufficientStock
	}

	mv := models.PartMovement{
		SparePartID: in.SparePartID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Reason:      in.Reason,
		WorkOrderID: in.WorkOrderID,
		Operator:    in.Operator,
		Date:        in.Date,
		CreatedAt:   time.Now(),
	}
	if mv.Date.IsZero() {
		mv.Date = mv.CreatedAt
	}

	err := s.withSpan("partmovement.add", func() error {
		saved, err := s.gw.InsertPartMovement(ctx, &mv)
		if err != nil {
			if offline(err) {
				mv.Origin = models.OriginLocal
				mv = s.state.AddPartMovementLocal(mv)
				s.applyStock(part.ID, newStock)
				s.notifyOffline("part_movement", "Movimiento de repuesto",
					fmt.Sprintf("movimiento de %s", part.Description))
				return nil
			}
			return err
		}
		saved.Origin = models.OriginRemote
		s.state.UpsertPartMovement(*saved)
		mv = *saved
		// The ledger entry is already committed; a transient failure
		// applying the stock delta degrades to the local copy only.
		if _, err := s.gw.UpdateSparePart(ctx, part.ID,
			map[string]interface{}{"current_stock": newStock}); err != nil && !offline(err) && !gateway.IsNotFound(err) {
			return err
		}
		s.applyStock(part.ID, newStock)
		s.notifySaved("part_movement", "Movimiento de repuesto",
			fmt.Sprintf("movimiento de %s", part.Description))
		s.checkLowStock(part, newStock)
		return nil
	})
	if err != nil {
		return models.PartMovement{}, err
	}
	return mv, nil
}

// DeletePartMovement removes a ledger entry and reverses its stock
// effect on the part. Unknown ids are silent no-ops.
func (s *FleetService) DeletePartMovement(ctx context.Context, id int) error {
	mv, ok := s.state.GetPartMovement(id)
	if !ok {
		return nil
	}

	return s.withSpan("partmovement.delete", func() error {
		reversed := 0
		if part, ok := s.state.GetSparePart(mv.SparePartID); ok {
			reversed = part.CurrentStock - stockDelta(mv.Type, mv.Quantity)
		}

		err := s.gw.DeletePartMovement(ctx, id)
		if err == nil {
			if _, ok := s.state.GetSparePart(mv.SparePartID); ok {
				_, err = s.gw.UpdateSparePart(ctx, mv.SparePartID,
					map[string]interface{}{"current_stock": reversed})
			}
		}
		switch {
		case err == nil, gateway.IsNotFound(err):
			s.state.RemovePartMovement(id)
			s.applyStock(mv.SparePartID, reversed)
			s.notifySaved("part_movement", "Movimiento de repuesto",
				fmt.Sprintf("movimiento %d eliminado", id))
			return nil
		case offline(err):
			s.state.RemovePartMovement(id)
			s.applyStock(mv.SparePartID, reversed)
			s.notifyOffline("part_movement", "Movimiento de repuesto",
				fmt.Sprintf("movimiento %d", id))
			return nil
		default:
			return err
		}
	})
}

// applyStock sets the in-memory stock of a part. Unknown parts are
// silent no-ops, matching the rest of the session contract.
func (s *FleetService) applyStock(partID, newStock int) {
	s.state.PatchSparePart(partID, models.SparePartPatch{CurrentStock: &newStock})
}

// checkLowStock raises a warning when a movement leaves the part at or
// below its minimum.
func (s *FleetService) checkLowStock(part models.SparePart, newStock int) {
	if part.MinimumStock <= 0 || newStock > part.MinimumStock {
		return
	}
	s.state.Notify(models.NotifyWarning, "Stock bajo",
		fmt.Sprintf("%s quedó con %d unidades (mínimo %d)",
			part.Description, newStock, part.MinimumStock), nil)
}
