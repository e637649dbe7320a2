// Package allocator produces work-order identifiers of the form
// OT-<year>-<seq>. The sequence is unique across all time; the year
// component is cosmetic, not a partition. The primary mechanism is the
// remote database sequence; parsing the most recent identifier and
// scanning the local collection are fallback strategies only, best
// effort by design. Two writers allocating while both offline can still
// collide; that limitation is accepted.
package allocator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"example.com/agrotrack/services/fleet/internal/models"

	"github.com/rs/zerolog/log"
)

const idPrefix = "OT"

// DefaultRemoteTimeout bounds the remote lookup.
const DefaultRemoteTimeout = 3 * time.Second

// RemoteSource is the slice of the gateway the allocator depends on.
type RemoteSource interface {
	NextWorkOrderSeq(ctx context.Context) (int, error)
	LatestWorkOrder(ctx context.Context) (*models.WorkOrder, error)
}

// LocalSource exposes the in-memory work-order collection.
type LocalSource interface {
	WorkOrders() []models.WorkOrder
}

// Allocator derives the next work-order identifier.
type Allocator struct {
	remote  RemoteSource
	local   LocalSource
	timeout time.Duration
	now     func() time.Time
}

// New creates an allocator. remote may be nil for a purely local
// (offline) session.
func New(remote RemoteSource, local LocalSource, timeout time.Duration) *Allocator {
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &Allocator{
		remote:  remote,
		local:   local,
		timeout: timeout,
		now:     time.Now,
	}
}

// Allocate returns the next identifier. It never fails: remote
// unavailability and malformed prior identifiers both degrade to
// deriving from the local collection.
func (a *Allocator) Allocate(ctx context.Context) string {
	seq := a.remoteSeq(ctx)

	if seq < 1 {
		seq = a.localSeq()
	}
	if seq < 1 {
		seq = 1
	}

	// Re-check against local ids; a stale remote answer or an earlier
	// offline allocation may already hold the candidate.
	held := map[string]bool{}
	for _, wo := range a.local.WorkOrders() {
		held[wo.ID] = true
	}
	year := a.now().Year()
	id := formatID(year, seq)
	for held[id] {
		seq++
		id = formatID(year, seq)
	}
	return id
}

// remoteSeq asks the remote store, preferring the dedicated sequence
// and falling back to parsing the most recent identifier. Returns 0
// when the remote store yields nothing usable.
func (a *Allocator) remoteSeq(ctx context.Context) int {
	if a.remote == nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	if seq, err := a.remote.NextWorkOrderSeq(ctx); err == nil && seq > 0 {
		return seq
	} else if err != nil {
		log.Debug().Err(err).Msg("Work order sequence unavailable, trying latest identifier")
	}

	latest, err := a.remote.LatestWorkOrder(ctx)
	if err != nil || latest == nil {
		if err != nil {
			log.Warn().Err(err).Msg("Remote work order lookup failed, deriving identifier locally")
		}
		return 0
	}
	if parsed, ok := parseSeq(latest.ID); ok {
		return parsed + 1
	}
	log.Warn().Str("id", latest.ID).Msg("Unparseable work order identifier, deriving locally")
	return 0
}

// localSeq scans the local collection for the highest parseable
// sequence. Returns 0 when nothing parses.
func (a *Allocator) localSeq() int {
	maxSeq := 0
	for _, wo := range a.local.WorkOrders() {
		if parsed, ok := parseSeq(wo.ID); ok && parsed > maxSeq {
			maxSeq = parsed
		}
	}
	if maxSeq == 0 {
		return 0
	}
	return maxSeq + 1
}

// parseSeq extracts the numeric suffix of an identifier shaped like
// X-Y-<int>. Identifiers with fewer than three segments or a
// non-numeric suffix are skipped.
func parseSeq(id string) (int, bool) {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func formatID(year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", idPrefix, year, seq)
}
