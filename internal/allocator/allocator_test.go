package allocator

import (
	"context"
	"fmt"
	"testing"
	"time"

	"example.com/agrotrack/services/fleet/internal/models"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRemoteSource mocks the gateway slice the allocator uses.
type MockRemoteSource struct {
	mock.Mock
}

func (m *MockRemoteSource) NextWorkOrderSeq(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRemoteSource) LatestWorkOrder(ctx context.Context) (*models.WorkOrder, error) {
	args := m.Called(ctx)
	wo, _ := args.Get(0).(*models.WorkOrder)
	return wo, args.Error(1)
}

// localOrders is a fixed local collection.
type localOrders []models.WorkOrder

func (l localOrders) WorkOrders() []models.WorkOrder {
	return append([]models.WorkOrder(nil), l...)
}

func ordersWithIDs(ids ...string) localOrders {
	out := make(localOrders, len(ids))
	for i, id := range ids {
		out[i] = models.WorkOrder{ID: id}
	}
	return out
}

func currentYear() int {
	return time.Now().Year()
}

func TestAllocateUsesRemoteSequence(t *testing.T) {
	remote := new(MockRemoteSource)
	remote.On("NextWorkOrderSeq", mock.Anything).Return(14, nil)

	a := New(remote, ordersWithIDs(), 0)
	id := a.Allocate(context.Background())

	require.Equal(t, fmt.Sprintf("OT-%d-014", currentYear()), id)
	remote.AssertExpectations(t)
	remote.AssertNotCalled(t, "LatestWorkOrder", mock.Anything)
}

func TestAllocateParsesLatestRemoteIdentifier(t *testing.T) {
	remote := new(MockRemoteSource)
	remote.On("NextWorkOrderSeq", mock.Anything).Return(0, errors.New("sequence missing"))
	remote.On("LatestWorkOrder", mock.Anything).Return(&models.WorkOrder{ID: "OT-2023-041"}, nil)

	a := New(remote, ordersWithIDs(), 0)
	id := a.Allocate(context.Background())

	require.Equal(t, fmt.Sprintf("OT-%d-042", currentYear()), id)
}

func TestAllocateFallsBackToLocalWhenRemoteUnreachable(t *testing.T) {
	remote := new(MockRemoteSource)
	remote.On("NextWorkOrderSeq", mock.Anything).Return(0, context.DeadlineExceeded)
	remote.On("LatestWorkOrder", mock.Anything).Return(nil, context.DeadlineExceeded)

	a := New(remote, ordersWithIDs("OT-2024-001", "OT-2024-007"), 0)
	id := a.Allocate(context.Background())

	require.Equal(t, fmt.Sprintf("OT-%d-008", currentYear()), id)
}

func TestAllocateWithoutRemoteSource(t *testing.T) {
	a := New(nil, ordersWithIDs("OT-2024-001", "OT-2024-007"), 0)
	id := a.Allocate(context.Background())

	require.Equal(t, fmt.Sprintf("OT-%d-008", currentYear()), id)
}

func TestAllocateNeverFailsOnMalformedLatest(t *testing.T) {
	for _, malformed := range []string{"OT-2025", "garbage", "OT-2025-abc", ""} {
		remote := new(MockRemoteSource)
		remote.On("NextWorkOrderSeq", mock.Anything).Return(0, errors.New("sequence missing"))
		remote.On("LatestWorkOrder", mock.Anything).Return(&models.WorkOrder{ID: malformed}, nil)

		a := New(remote, ordersWithIDs("OT-2024-003"), 0)
		id := a.Allocate(context.Background())

		require.Equal(t, fmt.Sprintf("OT-%d-004", currentYear()), id, "latest id %q", malformed)
	}
}

func TestAllocateEmptyEverywhereStartsAtOne(t *testing.T) {
	remote := new(MockRemoteSource)
	remote.On("NextWorkOrderSeq", mock.Anything).Return(0, errors.New("sequence missing"))
	remote.On("LatestWorkOrder", mock.Anything).Return(nil, nil)

	a := New(remote, ordersWithIDs(), 0)
	id := a.Allocate(context.Background())

	require.Equal(t, fmt.Sprintf("OT-%d-001", currentYear()), id)
}

func TestAllocateAvoidsLocalCollision(t *testing.T) {
	year := currentYear()
	remote := new(MockRemoteSource)
	remote.On("NextWorkOrderSeq", mock.Anything).Return(0, errors.New("sequence missing"))
	remote.On("LatestWorkOrder", mock.Anything).Return(&models.WorkOrder{ID: fmt.Sprintf("OT-%d-004", year)}, nil)

	local := ordersWithIDs(
		fmt.Sprintf("OT-%d-005", year),
		fmt.Sprintf("OT-%d-006", year),
	)
	a := New(remote, local, 0)
	id := a.Allocate(context.Background())

	require.Equal(t, fmt.Sprintf("OT-%d-007", year), id)
}

func TestAllocateMonotonicSingleWriter(t *testing.T) {
	local := ordersWithIDs("OT-2024-002")
	a := New(nil, &local, 0)

	prev := 2
	for i := 0; i < 5; i++ {
		id := a.Allocate(context.Background())
		seq, ok := parseSeq(id)
		require.True(t, ok)
		require.Equal(t, prev+1, seq)
		prev = seq
		// Simulate the store accepting the new order before the next call.
		local = append(local, models.WorkOrder{ID: id})
	}
}

func TestParseSeq(t *testing.T) {
	cases := []struct {
		id  string
		seq int
		ok  bool
	}{
		{"OT-2025-014", 14, true},
		{"OT-2025-1", 1, true},
		{"A-B-C-9", 9, true},
		{"OT-2025", 0, false},
		{"OT-2025-x", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		seq, ok := parseSeq(tc.id)
		require.Equal(t, tc.ok, ok, tc.id)
		require.Equal(t, tc.seq, seq, tc.id)
	}
}
