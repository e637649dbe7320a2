package state

import (
	"testing"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/localstore"
	"example.com/agrotrack/services/fleet/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	return New(localstore.New(t.TempDir(), "fleet"))
}

func TestUpsertDedupesByID(t *testing.T) {
	s := newTestState(t)

	s.UpsertWorkOrder(models.WorkOrder{ID: "OT-2026-001", Client: "A"})
	s.UpsertWorkOrder(models.WorkOrder{ID: "OT-2026-001", Client: "B"})

	orders := s.WorkOrders()
	require.Len(t, orders, 1)
	require.Equal(t, "B", orders[0].Client)
}

func TestUpsertPrependsNewRecords(t *testing.T) {
	s := newTestState(t)

	s.UpsertMachinery(models.Machinery{ID: 1, Name: "Tractor"})
	s.UpsertMachinery(models.Machinery{ID: 2, Name: "Cosechadora"})

	machines := s.Machinery()
	require.Len(t, machines, 2)
	require.Equal(t, 2, machines[0].ID)
}

func TestAddLocalAssignsMaxPlusOne(t *testing.T) {
	s := newTestState(t)

	s.UpsertMachinery(models.Machinery{ID: 3})
	s.UpsertMachinery(models.Machinery{ID: 7})

	added := s.AddMachineryLocal(models.Machinery{Name: "Pulverizador"})
	require.Equal(t, 8, added.ID)

	// An explicit id is kept as-is.
	kept := s.AddMachineryLocal(models.Machinery{ID: 42})
	require.Equal(t, 42, kept.ID)
}

func TestPatchUnknownIDIsNoOp(t *testing.T) {
	s := newTestState(t)

	name := "Nuevo"
	require.False(t, s.PatchMachinery(99, models.MachineryPatch{Name: &name}))
	require.Empty(t, s.Machinery())
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	s := newTestState(t)

	s.UpsertSparePart(models.SparePart{ID: 1})
	s.RemoveSparePart(99)
	require.Len(t, s.SpareParts(), 1)
}

func TestReplaceAllMarksRemoteOrigin(t *testing.T) {
	s := newTestState(t)
	s.UpsertWorkOrder(models.WorkOrder{ID: "OT-2026-001", Origin: models.OriginLocal})

	s.ReplaceAll(&gateway.Dataset{
		WorkOrders: []models.WorkOrder{{ID: "OT-2026-002"}},
	})

	orders := s.WorkOrders()
	require.Len(t, orders, 1)
	require.Equal(t, "OT-2026-002", orders[0].ID)
	require.Equal(t, models.OriginRemote, orders[0].Origin)
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(localstore.New(dir, "fleet"))

	s.UpsertMachinery(models.Machinery{ID: 1, Name: "Tractor"})
	s.UpsertWorkOrder(models.WorkOrder{ID: "OT-2026-001", Client: "Fundo El Roble"})
	s.FlushIfDirty()

	next := New(localstore.New(dir, "fleet"))
	next.RestoreSnapshot()

	require.Len(t, next.Machinery(), 1)
	require.Equal(t, "Tractor", next.Machinery()[0].Name)
	orders := next.WorkOrders()
	require.Len(t, orders, 1)
	require.Equal(t, "Fundo El Roble", orders[0].Client)
}

func TestFlushIfDirtySkipsWhenClean(t *testing.T) {
	dir := t.TempDir()
	s := New(localstore.New(dir, "fleet"))

	// Nothing changed, nothing written.
	s.FlushIfDirty()

	var restored []models.Machinery
	require.False(t, localstore.New(dir, "fleet").Load("machinery", &restored))
}

func TestNotificationFeedCapped(t *testing.T) {
	s := newTestState(t)

	for i := 0; i < maxNotifications+20; i++ {
		s.Notify(models.NotifyInfo, "t", "m", nil)
	}
	require.Len(t, s.Notifications(), maxNotifications)
}

func TestMarkNotificationRead(t *testing.T) {
	s := newTestState(t)

	n := s.Notify(models.NotifyInfo, "t", "m", nil)
	require.Equal(t, 1, s.UnreadNotifications())

	require.True(t, s.MarkNotificationRead(n.ID))
	require.Zero(t, s.UnreadNotifications())

	require.False(t, s.MarkNotificationRead(uuid.New()))
}

func TestMarkAllNotificationsRead(t *testing.T) {
	s := newTestState(t)

	s.Notify(models.NotifyInfo, "a", "m", nil)
	s.Notify(models.NotifyWarning, "b", "m", nil)
	s.MarkAllNotificationsRead()
	require.Zero(t, s.UnreadNotifications())
}
