// Package service implements the synchronization controller: every
// mutating operation is attempted against the remote gateway first and
// degrades to local-only persistence when the remote store is
// unreachable. Each terminal outcome emits exactly one notification.
package service

import (
	"context"
	"fmt"
	"time"

	"example.com/agrotrack/services/fleet/internal/allocator"
	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/localstore"
	"example.com/agrotrack/services/fleet/internal/messaging"
	"example.com/agrotrack/services/fleet/internal/metrics"
	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/search"
	"example.com/agrotrack/services/fleet/internal/state"
	"example.com/agrotrack/services/fleet/internal/tracing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrSessionCorrupted signals that the bulk fetch returned structurally
// malformed data. Local snapshots have already been purged; the only
// correct reaction is restarting the process.
var ErrSessionCorrupted = errors.New("session state corrupted, local snapshots purged")

// ErrInsufficientStock rejects an outbound part movement that would
// drive stock negative. Nothing was written, locally or remotely.
var ErrInsufficientStock = errors.New("insufficient stock for outbound movement")

// ErrNotFound reports an operation against an id the session does not
// know.
var ErrNotFound = errors.New("record not found")

// FleetService coordinates state, the remote gateway, and the ambient
// infrastructure. Search, messaging, metrics, and tracing are optional;
// nil values degrade those concerns to no-ops.
type FleetService struct {
	gw      gateway.Gateway
	state   *state.State
	store   *localstore.Store
	alloc   *allocator.Allocator
	es      *search.ElasticClient
	bus     messaging.ServiceBusClient
	metrics *metrics.Metrics
	tracer  tracing.Tracer
}

// NewFleetService wires the service.
func NewFleetService(
	gw gateway.Gateway,
	st *state.State,
	store *localstore.Store,
	alloc *allocator.Allocator,
	es *search.ElasticClient,
	bus messaging.ServiceBusClient,
	m *metrics.Metrics,
	tracer tracing.Tracer,
) *FleetService {
	return &FleetService{
		gw:      gw,
		state:   st,
		store:   store,
		alloc:   alloc,
		es:      es,
		bus:     bus,
		metrics: m,
		tracer:  tracer,
	}
}

// State exposes the session state for read paths.
func (s *FleetService) State() *state.State {
	return s.state
}

// Metrics exposes the operation counters.
func (s *FleetService) Metrics() *metrics.Metrics {
	return s.metrics
}

// Bootstrap loads the full dataset from the remote store. On a
// transient failure it falls back to the local snapshot and the session
// runs offline. On a corruption signature it purges the snapshots and
// returns ErrSessionCorrupted.
func (s *FleetService) Bootstrap(ctx context.Context) error {
	ds, err := s.gw.FetchAll(ctx)
	if err == nil {
		s.state.ReplaceAll(ds)
		s.state.SeedNotifications()
		log.Info().
			Int("machinery", len(ds.Machinery)).
			Int("work_orders", len(ds.WorkOrders)).
			Msg("Session loaded from remote store")
		return nil
	}

	switch gateway.Classify(err) {
	case gateway.KindSessionCorrupted:
		log.Error().Err(err).Msg("Bulk fetch returned corrupted data, purging local snapshots")
		s.store.Clear()
		return ErrSessionCorrupted
	default:
		log.Warn().Err(err).Msg("Remote store unreachable, restoring local snapshot")
		s.state.RestoreSnapshot()
		s.state.SeedNotifications()
		s.state.Notify(models.NotifyWarning, "Modo sin conexión",
			"No se pudo contactar el servidor; trabajando con datos locales", nil)
		return nil
	}
}

// FlushSnapshot writes the session collections to the local store when
// anything changed. Meant to run on a periodic schedule and at
// shutdown.
func (s *FleetService) FlushSnapshot() {
	s.state.FlushIfDirty()
	s.metrics.RecordSnapshotFlush()
}

// offline reports whether a remote failure should degrade the operation
// to local persistence rather than surface as an error.
func offline(err error) bool {
	switch gateway.Classify(err) {
	case gateway.KindTransient, gateway.KindUnknown:
		return true
	}
	return false
}

// notifySaved emits the single success notification for a terminal
// operation.
func (s *FleetService) notifySaved(entity, title, id string) {
	s.state.Notify(models.NotifySuccess, title, fmt.Sprintf("%s guardado correctamente", id), nil)
	s.metrics.RecordOperation(entity, metrics.OutcomeRemote)
}

// notifyOffline emits the single offline notification for a terminal
// operation that fell back to local persistence.
func (s *FleetService) notifyOffline(entity, title, id string) {
	s.state.Notify(models.NotifyWarning, title,
		fmt.Sprintf("%s guardado localmente, pendiente de sincronización", id), nil)
	s.metrics.RecordOperation(entity, metrics.OutcomeLocal)
}

// publishEvent sends a best-effort event to the service bus. Failures
// are logged and swallowed; domain operations never fail on messaging.
func (s *FleetService) publishEvent(ctx context.Context, kind string, payload interface{}) {
	if s.bus == nil {
		return
	}
	event := map[string]interface{}{
		"type":    kind,
		"payload": payload,
		"time":    time.Now().UTC(),
	}
	if err := s.bus.SendMessage(ctx, event); err != nil {
		log.Warn().Err(err).Str("event", kind).Msg("Failed to publish event")
	}
}

// withSpan runs fn inside a tracing span when tracing is enabled.
func (s *FleetService) withSpan(name string, fn func() error) error {
	if s.tracer == nil {
		return fn()
	}
	txn := s.tracer.StartTransaction(name)
	defer s.tracer.EndTransaction(txn)
	err := fn()
	if err != nil {
		s.tracer.RecordError(txn, err)
	}
	return err
}
