// Package realtime consumes the incident and fuel-load queues and
// merges arriving records into session state. Records are merged by id,
// so an event the session already knows replaces its copy instead of
// duplicating it, and every merged record raises a derived
// notification.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"example.com/agrotrack/services/fleet/config"
	"example.com/agrotrack/services/fleet/internal/metrics"
	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/state"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	receiveBatch   = 10
	receiveTimeout = 30 * time.Second
)

// Listener subscribes to the realtime queues.
type Listener struct {
	client  *azservicebus.Client
	cfg     config.AzureConfig
	state   *state.State
	metrics *metrics.Metrics
}

// NewListener creates a listener over one Service Bus connection.
func NewListener(cfg config.AzureConfig, st *state.State, m *metrics.Metrics) (*Listener, error) {
	if cfg.ConnectionString == "" {
		return nil, errors.New("Azure Service Bus connection string is empty")
	}

	client, err := azservicebus.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create service bus client")
	}

	return &Listener{client: client, cfg: cfg, state: st, metrics: m}, nil
}

// Run consumes both queues until the context is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	incidentDone := make(chan error, 1)
	fuelDone := make(chan error, 1)

	go func() { incidentDone <- l.consume(ctx, l.cfg.IncidentQueue, l.mergeIncident) }()
	go func() { fuelDone <- l.consume(ctx, l.cfg.FuelQueue, l.mergeFuelLoad) }()

	var firstErr error
	for i := 0; i < 2; i++ {
		select {
		case err := <-incidentDone:
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case err := <-fuelDone:
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Close releases the underlying connection.
func (l *Listener) Close(ctx context.Context) error {
	return l.client.Close(ctx)
}

// consume runs one receive loop. Messages that fail to merge are
// abandoned and redelivered by the broker.
func (l *Listener) consume(ctx context.Context, queue string, merge func([]byte) error) error {
	receiver, err := l.client.NewReceiverForQueue(queue, &azservicebus.ReceiverOptions{
		ReceiveMode: azservicebus.ReceiveModePeekLock,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to create receiver for queue %s", queue)
	}
	defer receiver.Close(context.Background())

	log.Info().Str("queue", queue).Msg("Realtime listener started")

	for {
		if ctx.Err() != nil {
			return nil
		}

		receiveCtx, cancel := context.WithTimeout(ctx, receiveTimeout)
		msgs, err := receiver.ReceiveMessages(receiveCtx, receiveBatch, nil)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warn().Err(err).Str("queue", queue).Msg("Receive failed, retrying")
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
				return nil
			}
			continue
		}

		for _, msg := range msgs {
			if err := merge(msg.Body); err != nil {
				log.Warn().Err(err).Str("queue", queue).Msg("Failed to merge realtime message")
				if err := receiver.AbandonMessage(ctx, msg, nil); err != nil {
					log.Warn().Err(err).Str("queue", queue).Msg("Failed to abandon message")
				}
				continue
			}
			l.metrics.RecordRealtime(queue)
			if err := receiver.CompleteMessage(ctx, msg, nil); err != nil {
				log.Warn().Err(err).Str("queue", queue).Msg("Failed to complete message")
			}
		}
	}
}

// mergeIncident upserts an incident arriving from the stream and raises
// the derived notification.
func (l *Listener) mergeIncident(body []byte) error {
	var inc models.Incident
	if err := json.Unmarshal(body, &inc); err != nil {
		return errors.Wrap(err, "failed to unmarshal incident")
	}
	if inc.ID == 0 {
		return errors.New("incident without id")
	}

	inc.Origin = models.OriginRemote
	l.state.UpsertIncident(inc)
	l.state.Notify(models.NotifyWarning, "Nuevo incidente",
		fmt.Sprintf("Incidente reportado en máquina %d: %s", inc.MachineryID, inc.Description), nil)
	return nil
}

// mergeFuelLoad upserts a fuel load arriving from the stream and raises
// the derived notification.
func (l *Listener) mergeFuelLoad(body []byte) error {
	var fl models.FuelLoad
	if err := json.Unmarshal(body, &fl); err != nil {
		return errors.Wrap(err, "failed to unmarshal fuel load")
	}
	if fl.ID == 0 {
		return errors.New("fuel load without id")
	}

	fl.Origin = models.OriginRemote
	l.state.UpsertFuelLoad(fl)
	l.state.Notify(models.NotifyInfo, "Carga de combustible",
		fmt.Sprintf("Carga de %.1f litros registrada en máquina %d", fl.Liters, fl.MachineryID), nil)
	return nil
}
