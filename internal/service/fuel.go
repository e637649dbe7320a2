package service

import (
	"context"
	"fmt"
	"time"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/models"
)

// NewFuelLoadInput carries the caller-supplied fields of a fuel
// dispensing event. PhotoData and ReceiptData accept inline data URIs
// or plain URLs.
type NewFuelLoadInput struct {
	MachineryID  int       `json:"machinery_id" binding:"required"`
	Operator     string    `json:"operator"`
	Date         time.Time `json:"date"`
	Liters       float64   `json:"liters" binding:"required"`
	CostPerLiter float64   `json:"cost_per_liter"`
	TotalCost    float64   `json:"total_cost"`
	Source       string    `json:"source"`
	Location     string    `json:"location"`
	PhotoData    string    `json:"photo_data"`
	ReceiptData  string    `json:"receipt_data"`
}

// AddFuelLoad records a fuel load. Attachments upload before the
// insert; an upload failure downgrades to saving without the attachment
// rather than failing the operation. TotalCost is a denormalized value;
// when the caller omits it, it is derived from liters and unit cost.
func (s *FleetService) AddFuelLoad(ctx context.Context, in NewFuelLoadInput) (models.FuelLoad, error) {
	now := time.Now()
	fl := models.FuelLoad{
		MachineryID:  in.MachineryID,
		Operator:     in.Operator,
		Date:         in.Date,
		Liters:       in.Liters,
		CostPerLiter: in.CostPerLiter,
		TotalCost:    in.TotalCost,
		Source:       in.Source,
		Location:     in.Location,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if fl.Date.IsZero() {
		fl.Date = now
	}
	if fl.Source == "" {
		fl.Source = models.FuelSourceDepot
	}
	if fl.TotalCost == 0 {
		fl.TotalCost = in.Liters * in.CostPerLiter
	}
	if in.PhotoData != "" {
		fl.PhotoURL = s.uploadAttachment(ctx, "fuel/photos", in.PhotoData)
	}
	if in.ReceiptData != "" {
		fl.ReceiptURL = s.uploadAttachment(ctx, "fuel/receipts", in.ReceiptData)
	}

	err := s.withSpan("fuel.add", func() error {
		saved, err := s.gw.InsertFuelLoad(ctx, &fl)
		if err != nil {
			if offline(err) {
				fl.Origin = models.OriginLocal
				fl = s.state.AddFuelLoadLocal(fl)
				s.notifyOffline("fuel_load", "Carga de combustible", fmt.Sprintf("carga %d", fl.ID))
				return nil
			}
			return err
		}
		saved.Origin = models.OriginRemote
		s.state.UpsertFuelLoad(*saved)
		fl = *saved
		s.notifySaved("fuel_load", "Carga de combustible", fmt.Sprintf("carga %d", fl.ID))
		s.publishEvent(ctx, "fuel_load.created", fl)
		return nil
	})
	if err != nil {
		return models.FuelLoad{}, err
	}
	return fl, nil
}

// UpdateFuelLoad merges a partial update. When liters or unit cost
// change and no explicit total accompanies them, the denormalized total
// is rederived. Unknown ids are silent no-ops.
func (s *FleetService) UpdateFuelLoad(ctx context.Context, id int, p models.FuelLoadPatch) error {
	return s.withSpan("fuel.update", func() error {
		if p.TotalCost == nil && (p.Liters != nil || p.CostPerLiter != nil) {
			current, ok := s.state.GetFuelLoad(id)
			if !ok {
				return nil
			}
			liters := current.Liters
			unit := current.CostPerLiter
			if p.Liters != nil {
				liters = *p.Liters
			}
			if p.CostPerLiter != nil {
				unit = *p.CostPerLiter
			}
			total := liters * unit
			p.TotalCost = &total
		}

		fields := p.Fields()
		if len(fields) == 0 {
			return nil
		}

		saved, err := s.gw.UpdateFuelLoad(ctx, id, fields)
		switch {
		case err == nil:
			saved.Origin = models.OriginRemote
			s.state.UpsertFuelLoad(*saved)
			s.notifySaved("fuel_load", "Carga de combustible", fmt.Sprintf("carga %d", id))
			return nil
		case gateway.IsNotFound(err):
			s.state.PatchFuelLoad(id, p)
			return nil
		case offline(err):
			if !s.state.PatchFuelLoad(id, p) {
				return nil
			}
			s.notifyOffline("fuel_load", "Carga de combustible", fmt.Sprintf("carga %d", id))
			return nil
		default:
			return err
		}
	})
}

// DeleteFuelLoad removes a fuel load. Unknown ids are silent no-ops.
func (s *FleetService) DeleteFuelLoad(ctx context.Context, id int) error {
	return s.withSpan("fuel.delete", func() error {
		err := s.gw.DeleteFuelLoad(ctx, id)
		switch {
		case err == nil, gateway.IsNotFound(err):
			s.state.RemoveFuelLoad(id)
			s.notifySaved("fuel_load", "Carga de combustible", fmt.Sprintf("carga %d eliminada", id))
			return nil
		case offline(err):
			s.state.RemoveFuelLoad(id)
			s.notifyOffline("fuel_load", "Carga de combustible", fmt.Sprintf("carga %d", id))
			return nil
		default:
			return err
		}
	})
}
