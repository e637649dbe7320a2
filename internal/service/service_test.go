package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"example.com/agrotrack/services/fleet/internal/allocator"
	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/localstore"
	"example.com/agrotrack/services/fleet/internal/metrics"
	"example.com/agrotrack/services/fleet/internal/models"
	"example.com/agrotrack/services/fleet/internal/state"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a mock implementation of the gateway.Gateway interface
type MockGateway struct {
	mock.Mock
	storage gateway.Storage
}

func (m *MockGateway) FetchAll(ctx context.Context) (*gateway.Dataset, error) {
	args := m.Called(ctx)
	if ds := args.Get(0); ds != nil {
		return ds.(*gateway.Dataset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) NextWorkOrderSeq(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockGateway) LatestWorkOrder(ctx context.Context) (*models.WorkOrder, error) {
	args := m.Called(ctx)
	if wo := args.Get(0); wo != nil {
		return wo.(*models.WorkOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) InsertWorkOrder(ctx context.Context, wo *models.WorkOrder) (*models.WorkOrder, error) {
	args := m.Called(ctx, wo)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.WorkOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) UpdateWorkOrder(ctx context.Context, id string, fields map[string]interface{}) (*models.WorkOrder, error) {
	args := m.Called(ctx, id, fields)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.WorkOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) DeleteWorkOrder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) InsertMachinery(ctx context.Context, rec *models.Machinery) (*models.Machinery, error) {
	args := m.Called(ctx, rec)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.Machinery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) UpdateMachinery(ctx context.Context, id int, fields map[string]interface{}) (*models.Machinery, error) {
	args := m.Called(ctx, id, fields)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.Machinery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) DeleteMachinery(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) InsertMaintenance(ctx context.Context, rec *models.Maintenance) (*models.Maintenance, error) {
	args := m.Called(ctx, rec)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.Maintenance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) SaveMaintenance(ctx context.Context, rec *models.Maintenance) (*models.Maintenance, error) {
	args := m.Called(ctx, rec)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.Maintenance), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) DeleteMaintenance(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) InsertFuelLoad(ctx context.Context, rec *models.FuelLoad) (*models.FuelLoad, error) {
	args := m.Called(ctx, rec)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.FuelLoad), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) UpdateFuelLoad(ctx context.Context, id int, fields map[string]interface{}) (*models.FuelLoad, error) {
	args := m.Called(ctx, id, fields)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.FuelLoad), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) DeleteFuelLoad(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) InsertSparePart(ctx context.Context, rec *models.SparePart) (*models.SparePart, error) {
	args := m.Called(ctx, rec)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.SparePart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) UpdateSparePart(ctx context.Context, id int, fields map[string]interface{}) (*models.SparePart, error) {
	args := m.Called(ctx, id, fields)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.SparePart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) DeleteSparePart(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) InsertPartMovement(ctx context.Context, rec *models.PartMovement) (*models.PartMovement, error) {
	args := m.Called(ctx, rec)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.PartMovement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) DeletePartMovement(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) InsertIncident(ctx context.Context, rec *models.Incident) (*models.Incident, error) {
	args := m.Called(ctx, rec)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.Incident), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) UpdateIncident(ctx context.Context, id int, fields map[string]interface{}) (*models.Incident, error) {
	args := m.Called(ctx, id, fields)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.Incident), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) InsertUser(ctx context.Context, rec *models.User) (*models.User, error) {
	args := m.Called(ctx, rec)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) UpdateUser(ctx context.Context, id int, fields map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, id, fields)
	if saved := args.Get(0); saved != nil {
		return saved.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGateway) DeleteUser(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGateway) Storage() gateway.Storage {
	return m.storage
}

func (m *MockGateway) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func transientErr(op string) error {
	return &gateway.Error{Kind: gateway.KindTransient, Op: op, Err: errors.New("connection refused")}
}

func newTestService(t *testing.T, gw *MockGateway) (*FleetService, *state.State) {
	t.Helper()
	store := localstore.New(t.TempDir(), "fleet")
	st := state.New(store)
	gw.storage = gateway.NewFilesystemStorage(t.TempDir(), "http://files.local")
	alloc := allocator.New(gw, st, 0)
	svc := NewFleetService(gw, st, store, alloc, nil, nil, metrics.NewMetrics(), nil)
	return svc, st
}

// notificationCount returns the feed size minus the pre-existing items.
func notificationCount(st *state.State) int {
	return len(st.Notifications())
}

func TestAddWorkOrderRemoteSuccess(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	gw.On("NextWorkOrderSeq", mock.Anything).Return(14, nil)
	gw.On("InsertWorkOrder", mock.Anything, mock.AnythingOfType("*models.WorkOrder")).
		Return(&models.WorkOrder{ID: "OT-2026-014", Client: "Fundo El Roble", Status: models.StatusPlanned}, nil)

	wo, err := svc.AddWorkOrder(context.Background(), NewWorkOrderInput{Client: "Fundo El Roble"})
	require.NoError(t, err)
	require.Equal(t, "OT-2026-014", wo.ID)
	require.Equal(t, models.OriginRemote, wo.Origin)

	stored, ok := st.GetWorkOrder("OT-2026-014")
	require.True(t, ok)
	require.Equal(t, models.OriginRemote, stored.Origin)
	require.Equal(t, 1, notificationCount(st))
	require.Equal(t, models.NotifySuccess, st.Notifications()[0].Type)
}

func TestAddWorkOrderOfflineFallback(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	st.UpsertWorkOrder(models.WorkOrder{ID: "OT-2024-001"})
	st.UpsertWorkOrder(models.WorkOrder{ID: "OT-2024-007"})

	gw.On("NextWorkOrderSeq", mock.Anything).Return(0, transientErr("next_seq"))
	gw.On("LatestWorkOrder", mock.Anything).Return(nil, transientErr("latest"))
	gw.On("InsertWorkOrder", mock.Anything, mock.AnythingOfType("*models.WorkOrder")).
		Return(nil, transientErr("insert"))

	wo, err := svc.AddWorkOrder(context.Background(), NewWorkOrderInput{Client: "Agrícola Sur"})
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("OT-%d-008", time.Now().Year()), wo.ID)
	require.Equal(t, models.OriginLocal, wo.Origin)

	require.Len(t, st.WorkOrders(), 3)
	require.Equal(t, 1, notificationCount(st))
	require.Equal(t, models.NotifyWarning, st.Notifications()[0].Type)
}

func TestUpdateWorkOrderUnknownIDIsNoOp(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	gw.On("UpdateWorkOrder", mock.Anything, "OT-2026-099", mock.Anything).
		Return(nil, &gateway.Error{Kind: gateway.KindNotFound, Op: "update", Err: errors.New("not found")})

	status := models.StatusCompleted
	err := svc.UpdateWorkOrder(context.Background(), "OT-2026-099", models.WorkOrderPatch{Status: &status})
	require.NoError(t, err)
	require.Empty(t, st.WorkOrders())
	require.Zero(t, notificationCount(st))
}

func TestAddPartMovementOutboundRejected(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	st.UpsertSparePart(models.SparePart{ID: 5, Description: "Filtro de aceite", CurrentStock: 10})

	_, err := svc.AddPartMovement(context.Background(), NewPartMovementInput{
		SparePartID: 5,
		Type:        models.MovementOut,
		Quantity:    12,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	part, _ := st.GetSparePart(5)
	require.Equal(t, 10, part.CurrentStock)
	require.Empty(t, st.PartMovements())
	gw.AssertNotCalled(t, "InsertPartMovement", mock.Anything, mock.Anything)

	require.Equal(t, 1, notificationCount(st))
	require.Equal(t, models.NotifyError, st.Notifications()[0].Type)
}

func TestAddPartMovementInboundAppliesDelta(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	st.UpsertSparePart(models.SparePart{ID: 5, Description: "Filtro de aceite", CurrentStock: 10})

	gw.On("InsertPartMovement", mock.Anything, mock.AnythingOfType("*models.PartMovement")).
		Return(&models.PartMovement{ID: 31, SparePartID: 5, Type: models.MovementIn, Quantity: 3}, nil)
	gw.On("UpdateSparePart", mock.Anything, 5, map[string]interface{}{"current_stock": 13}).
		Return(&models.SparePart{ID: 5, CurrentStock: 13}, nil)

	mv, err := svc.AddPartMovement(context.Background(), NewPartMovementInput{
		SparePartID: 5,
		Type:        models.MovementIn,
		Quantity:    3,
	})
	require.NoError(t, err)
	require.Equal(t, 31, mv.ID)

	part, _ := st.GetSparePart(5)
	require.Equal(t, 13, part.CurrentStock)
	require.Len(t, st.PartMovements(), 1)
	require.Equal(t, models.MovementIn, st.PartMovements()[0].Type)
}

func TestDeletePartMovementReversesStock(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	st.UpsertSparePart(models.SparePart{ID: 5, Description: "Filtro de aceite", CurrentStock: 7})
	st.UpsertPartMovement(models.PartMovement{ID: 31, SparePartID: 5, Type: models.MovementOut, Quantity: 3})

	gw.On("DeletePartMovement", mock.Anything, 31).Return(nil)
	gw.On("UpdateSparePart", mock.Anything, 5, map[string]interface{}{"current_stock": 10}).
		Return(&models.SparePart{ID: 5, CurrentStock: 10}, nil)

	require.NoError(t, svc.DeletePartMovement(context.Background(), 31))

	part, _ := st.GetSparePart(5)
	require.Equal(t, 10, part.CurrentStock)
	require.Empty(t, st.PartMovements())
}

func TestDeletePartMovementUnknownIDIsNoOp(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	require.NoError(t, svc.DeletePartMovement(context.Background(), 999))
	require.Zero(t, notificationCount(st))
	gw.AssertNotCalled(t, "DeletePartMovement", mock.Anything, mock.Anything)
}

func TestMaintenanceCostDerivedFromItems(t *testing.T) {
	gw := new(MockGateway)
	svc, _ := newTestService(t, gw)

	gw.On("InsertMaintenance", mock.Anything, mock.MatchedBy(func(m *models.Maintenance) bool {
		return m.Cost == 45000
	})).Return(&models.Maintenance{ID: 1, Cost: 45000}, nil)

	m, err := svc.AddMaintenance(context.Background(), NewMaintenanceInput{
		MachineryID: 2,
		Type:        "preventiva",
		Items: []models.MaintenanceItem{
			{Description: "Cambio de aceite", Cost: 30000},
			{Description: "Filtro", Cost: 15000},
		},
	})
	require.NoError(t, err)
	require.Equal(t, float64(45000), m.Cost)
}

func TestUpdateMaintenanceRecomputesCost(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	st.UpsertMaintenance(models.Maintenance{
		ID:   4,
		Cost: 45000,
		Items: []models.MaintenanceItem{
			{Description: "Cambio de aceite", Cost: 30000},
			{Description: "Filtro", Cost: 15000},
		},
	})

	gw.On("SaveMaintenance", mock.Anything, mock.MatchedBy(func(m *models.Maintenance) bool {
		return m.ID == 4 && m.Cost == 30000
	})).Return(&models.Maintenance{ID: 4, Cost: 30000}, nil)

	items := []models.MaintenanceItem{{Description: "Cambio de aceite", Cost: 30000}}
	err := svc.UpdateMaintenance(context.Background(), 4, UpdateMaintenanceInput{Items: &items})
	require.NoError(t, err)

	stored, _ := st.GetMaintenance(4)
	require.Equal(t, float64(30000), stored.Cost)
}

func TestBootstrapRemoteSuccess(t *testing.T) {
	gw := new(MockGateway)
	svc, st := newTestService(t, gw)

	gw.On("FetchAll", mock.Anything).Return(&gateway.Dataset{
		Machinery:  []models.Machinery{{ID: 1, Name: "Tractor"}},
		WorkOrders: []models.WorkOrder{{ID: "OT-2026-001"}},
	}, nil)

	require.NoError(t, svc.Bootstrap(context.Background()))
	require.Len(t, st.Machinery(), 1)
	require.Equal(t, models.OriginRemote, st.Machinery()[0].Origin)
}

func TestBootstrapFallsBackToSnapshot(t *testing.T) {
	gw := new(MockGateway)
	store := localstore.New(t.TempDir(), "fleet")
	store.Save("machinery", []models.Machinery{{ID: 1, Name: "Tractor"}})

	st := state.New(store)
	gw.storage = gateway.NewFilesystemStorage(t.TempDir(), "http://files.local")
	svc := NewFleetService(gw, st, store, allocator.New(gw, st, 0), nil, nil, metrics.NewMetrics(), nil)

	gw.On("FetchAll", mock.Anything).Return(nil, transientErr("fetch_all"))

	require.NoError(t, svc.Bootstrap(context.Background()))
	require.Len(t, st.Machinery(), 1)
}

func TestBootstrapCorruptionPurgesSnapshots(t *testing.T) {
	gw := new(MockGateway)
	dir := t.TempDir()
	store := localstore.New(dir, "fleet")
	store.Save("machinery", []models.Machinery{{ID: 1}})

	st := state.New(store)
	gw.storage = gateway.NewFilesystemStorage(t.TempDir(), "http://files.local")
	svc := NewFleetService(gw, st, store, allocator.New(gw, st, 0), nil, nil, metrics.NewMetrics(), nil)

	gw.On("FetchAll", mock.Anything).
		Return(nil, &gateway.Error{Kind: gateway.KindSessionCorrupted, Op: "fetch_all", Err: errors.New("invalid character")})

	err := svc.Bootstrap(context.Background())
	require.ErrorIs(t, err, ErrSessionCorrupted)

	var restored []models.Machinery
	require.False(t, store.Load("machinery", &restored))
}

func TestAddFuelLoadDenormalizesTotal(t *testing.T) {
	gw := new(MockGateway)
	svc, _ := newTestService(t, gw)

	gw.On("InsertFuelLoad", mock.Anything, mock.MatchedBy(func(fl *models.FuelLoad) bool {
		return fl.TotalCost == 45.5*1200
	})).Return(&models.FuelLoad{ID: 9, Liters: 45.5, CostPerLiter: 1200, TotalCost: 45.5 * 1200}, nil)

	fl, err := svc.AddFuelLoad(context.Background(), NewFuelLoadInput{
		MachineryID:  1,
		Liters:       45.5,
		CostPerLiter: 1200,
	})
	require.NoError(t, err)
	require.Equal(t, 45.5*1200, fl.TotalCost)
}

func TestAddFuelLoadUploadsDataURI(t *testing.T) {
	gw := new(MockGateway)
	svc, _ := newTestService(t, gw)

	gw.On("InsertFuelLoad", mock.Anything, mock.MatchedBy(func(fl *models.FuelLoad) bool {
		return fl.PhotoURL != "" && fl.PhotoURL != "data:image/png;base64,aGVsbG8="
	})).Return(&models.FuelLoad{ID: 9, PhotoURL: "http://files.local/fuel/photos/x.png"}, nil)

	fl, err := svc.AddFuelLoad(context.Background(), NewFuelLoadInput{
		MachineryID: 1,
		Liters:      10,
		PhotoData:   "data:image/png;base64,aGVsbG8=",
	})
	require.NoError(t, err)
	require.NotEmpty(t, fl.PhotoURL)
}
