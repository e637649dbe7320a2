package service

import (
	"context"
	"fmt"
	"time"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/models"
)

// NewUserInput carries the caller-supplied fields of an account.
type NewUserInput struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// AddUser registers an operator or administrator account.
func (s *FleetService) AddUser(ctx context.Context, in NewUserInput) (models.User, error) {
	now := time.Now()
	u := models.User{
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if u.Role == "" {
		u.Role = "operador"
	}

	err := s.withSpan("user.add", func() error {
		saved, err := s.gw.InsertUser(ctx, &u)
		if err != nil {
			if offline(err) {
				u.Origin = models.OriginLocal
				u = s.state.AddUserLocal(u)
				s.notifyOffline("user", "Usuario", u.Name)
				return nil
			}
			return err
		}
		saved.Origin = models.OriginRemote
		s.state.UpsertUser(*saved)
		u = *saved
		s.notifySaved("user", "Usuario", u.Name)
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

// UpdateUser merges a partial update. Unknown ids are silent no-ops.
func (s *FleetService) UpdateUser(ctx context.Context, id int, p models.UserPatch) error {
	return s.withSpan("user.update", func() error {
		fields := p.Fields()
		if len(fields) == 0 {
			return nil
		}

		saved, err := s.gw.UpdateUser(ctx, id, fields)
		switch {
		case err == nil:
			saved.Origin = models.OriginRemote
			s.state.UpsertUser(*saved)
			s.notifySaved("user", "Usuario", saved.Name)
			return nil
		case gateway.IsNotFound(err):
			s.state.PatchUser(id, p)
			return nil
		case offline(err):
			if !s.state.PatchUser(id, p) {
				return nil
			}
			s.notifyOffline("user", "Usuario", fmt.Sprintf("usuario %d", id))
			return nil
		default:
			return err
		}
	})
}

// DeleteUser removes an account. Unknown ids are silent no-ops.
func (s *FleetService) DeleteUser(ctx context.Context, id int) error {
	return s.withSpan("user.delete", func() error {
		err := s.gw.DeleteUser(ctx, id)
		switch {
		case err == nil, gateway.IsNotFound(err):
			s.state.RemoveUser(id)
			s.notifySaved("user", "Usuario", fmt.Sprintf("usuario %d eliminado", id))
			return nil
		case offline(err):
			s.state.RemoveUser(id)
			s.notifyOffline("user", "Usuario", fmt.Sprintf("usuario %d", id))
			return nil
		default:
			return err
		}
	})
}
