package realtime

import (
	"encoding/json"
	"testing"

	"example.com/agrotrack/services/fleet/internal/localstore"
	"example.com/agrotrack/services/fleet/internal/metrics"
	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/state"

	"github.com/stretchr/testify/require"
)

func newTestListener(t *testing.T) (*Listener, *state.State) {
	t.Helper()
	st := state.New(localstore.New(t.TempDir(), "fleet"))
	return &Listener{state: st, metrics: metrics.NewMetrics()}, st
}

func TestMergeIncidentDedupesByID(t *testing.T) {
	l, st := newTestListener(t)

	st.UpsertIncident(models.Incident{ID: 7, Description: "vieja"})

	body, _ := json.Marshal(models.Incident{ID: 7, MachineryID: 2, Description: "falla hidráulica"})
	require.NoError(t, l.mergeIncident(body))

	incidents := st.Incidents()
	require.Len(t, incidents, 1)
	require.Equal(t, "falla hidráulica", incidents[0].Description)
	require.Equal(t, models.OriginRemote, incidents[0].Origin)

	// One derived notification per merged record.
	require.Len(t, st.Notifications(), 1)
	require.Equal(t, models.NotifyWarning, st.Notifications()[0].Type)
}

func TestMergeIncidentRejectsMalformed(t *testing.T) {
	l, st := newTestListener(t)

	require.Error(t, l.mergeIncident([]byte("{not json")))
	require.Error(t, l.mergeIncident([]byte(`{"description":"sin id"}`)))
	require.Empty(t, st.Incidents())
}

func TestMergeFuelLoadAddsRecord(t *testing.T) {
	l, st := newTestListener(t)

	body, _ := json.Marshal(models.FuelLoad{ID: 3, MachineryID: 1, Liters: 45.5})
	require.NoError(t, l.mergeFuelLoad(body))

	loads := st.FuelLoads()
	require.Len(t, loads, 1)
	require.Equal(t, 45.5, loads[0].Liters)
	require.Len(t, st.Notifications(), 1)
}
