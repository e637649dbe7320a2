package service

import (
	"context"
	"fmt"
	"time"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/models"

	"github.com/rs/zerolog/log"
)

// NewMachineryInput carries the caller-supplied fields of a machine.
type NewMachineryInput struct {
	Name      string  `json:"name" binding:"required"`
	Type      string  `json:"type" binding:"required"`
	Brand     string  `json:"brand"`
	Model     string  `json:"model"`
	Year      int     `json:"year"`
	HoursUsed float64 `json:"hours_used"`
	Status    string  `json:"status"`
	Location  string  `json:"location"`
	ImageData string  `json:"image_data"`
}

// AddMachinery registers a machine. An inline data-URI image is
// uploaded to attachment storage first; upload failure downgrades to
// saving without the image rather than failing the operation.
func (s *FleetService) AddMachinery(ctx context.Context, in NewMachineryInput) (models.Machinery, error) {
	now := time.Now()
	m := models.Machinery{
		Name:      in.Name,
		Type:      in.Type,
		Brand:     in.Brand,
		Model:     in.Model,
		Year:      in.Year,
		HoursUsed: in.HoursUsed,
		Status:    in.Status,
		Location:  in.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if m.Status == "" {
		m.Status = "activa"
	}
	if in.ImageData != "" {
		m.ImageURL = s.uploadAttachment(ctx, "machinery", in.ImageData)
	}

	err := s.withSpan("machinery.add", func() error {
		saved, err := s.gw.InsertMachinery(ctx, &m)
		if err != nil {
			if offline(err) {
				m.Origin = models.OriginLocal
				m = s.state.AddMachineryLocal(m)
				s.notifyOffline("machinery", "Maquinaria", m.Name)
				return nil
			}
			return err
		}
		saved.Origin = models.OriginRemote
		s.state.UpsertMachinery(*saved)
		m = *saved
		s.notifySaved("machinery", "Maquinaria", m.Name)
		s.publishEvent(ctx, "machinery.created", m)
		return nil
	})
	if err != nil {
		return models.Machinery{}, err
	}
	return m, nil
}

// UpdateMachinery merges a partial update. Unknown ids are silent
// no-ops.
func (s *FleetService) UpdateMachinery(ctx context.Context, id int, p models.MachineryPatch) error {
	return s.withSpan("machinery.update", func() error {
		fields := p.Fields()
		if len(fields) == 0 {
			return nil
		}

		saved, err := s.gw.UpdateMachinery(ctx, id, fields)
		switch {
		case err == nil:
			saved.Origin = models.OriginRemote
			s.state.UpsertMachinery(*saved)
			s.notifySaved("machinery", "Maquinaria", saved.Name)
			return nil
		case gateway.IsNotFound(err):
			s.state.PatchMachinery(id, p)
			return nil
		case offline(err):
			if !s.state.PatchMachinery(id, p) {
				return nil
			}
			s.notifyOffline("machinery", "Maquinaria", fmt.Sprintf("máquina %d", id))
			return nil
		default:
			return err
		}
	})
}

// DeleteMachinery removes a machine. Unknown ids are silent no-ops.
func (s *FleetService) DeleteMachinery(ctx context.Context, id int) error {
	return s.withSpan("machinery.delete", func() error {
		err := s.gw.DeleteMachinery(ctx, id)
		switch {
		case err == nil, gateway.IsNotFound(err):
			s.state.RemoveMachinery(id)
			s.notifySaved("machinery", "Maquinaria", fmt.Sprintf("máquina %d eliminada", id))
			return nil
		case offline(err):
			s.state.RemoveMachinery(id)
			s.notifyOffline("machinery", "Maquinaria", fmt.Sprintf("máquina %d", id))
			return nil
		default:
			return err
		}
	})
}

// uploadAttachment decodes a data URI and stores it, returning the
// public URL. A plain URL passes through untouched; a failed upload
// returns empty and the record saves without the attachment.
func (s *FleetService) uploadAttachment(ctx context.Context, kind, data string) string {
	if !gateway.IsDataURI(data) {
		return data
	}
	payload, contentType, err := gateway.DecodeDataURI(data)
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("Malformed attachment data, saving without it")
		return ""
	}
	path := fmt.Sprintf("%s/%d%s", kind, time.Now().UnixNano(), gateway.ExtensionForMIME(contentType))
	url, err := s.gw.Storage().Upload(ctx, path, payload, contentType)
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("Attachment upload failed, saving without it")
		return ""
	}
	return url
}
