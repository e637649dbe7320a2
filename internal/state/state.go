// Package state holds the in-memory session state: one ordered
// collection per entity plus the notification feed. The collections are
// the authoritative view during a session; the local snapshot store is
// only a seed for the next start. All access goes through a single
// mutex, mutations replace slices rather than editing them in place,
// and inserts dedupe by id so a record delivered by both the bulk fetch
// and the realtime stream appears once.
package state

import (
	"sync"

	"example.com/agrotrack/services/fleet/internal/gateway"
	"example.com/agrotrack/services/fleet/internal/localstore"
	"example.com/agrotrack/services/fleet/internal/models"
)

// Snapshot keys in the local store.
const (
	keyMachinery     = "machinery"
	keyWorkOrders    = "work_orders"
	keyMaintenance   = "maintenance"
	keyFuelLoads     = "fuel_loads"
	keySpareParts    = "spare_parts"
	keyPartMovements = "part_movements"
	keyIncidents     = "incidents"
	keyUsers         = "users"
)

// State is the shared application state for one session.
type State struct {
	mu    sync.RWMutex
	store *localstore.Store
	dirty bool

	machinery     []models.Machinery
	workOrders    []models.WorkOrder
	maintenance   []models.Maintenance
	fuelLoads     []models.FuelLoad
	spareParts    []models.SparePart
	partMovements []models.PartMovement
	incidents     []models.Incident
	users         []models.User

	notifications []models.Notification
}

// New creates an empty state backed by the given snapshot store.
func New(store *localstore.Store) *State {
	return &State{store: store}
}

// ReplaceAll swaps in a full dataset from the remote store. Every
// record is marked authoritative.
func (s *State) ReplaceAll(ds *gateway.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.machinery = markMachinery(ds.Machinery, models.OriginRemote)
	s.workOrders = markWorkOrders(ds.WorkOrders, models.OriginRemote)
	s.maintenance = markMaintenance(ds.Maintenance, models.OriginRemote)
	s.fuelLoads = markFuelLoads(ds.FuelLoads, models.OriginRemote)
	s.spareParts = markSpareParts(ds.SpareParts, models.OriginRemote)
	s.partMovements = markPartMovements(ds.PartMovements, models.OriginRemote)
	s.incidents = markIncidents(ds.Incidents, models.OriginRemote)
	s.users = markUsers(ds.Users, models.OriginRemote)
	s.dirty = true
}

// RestoreSnapshot seeds the state from the local snapshot store.
// Missing or malformed collections stay empty.
func (s *State) RestoreSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Load(keyMachinery, &s.machinery)
	s.store.Load(keyWorkOrders, &s.workOrders)
	s.store.Load(keyMaintenance, &s.maintenance)
	s.store.Load(keyFuelLoads, &s.fuelLoads)
	s.store.Load(keySpareParts, &s.spareParts)
	s.store.Load(keyPartMovements, &s.partMovements)
	s.store.Load(keyIncidents, &s.incidents)
	s.store.Load(keyUsers, &s.users)
}

// FlushIfDirty writes the collections to the local snapshot store when
// anything changed since the last flush.
func (s *State) FlushIfDirty() {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return
	}
	s.dirty = false
	machinery := s.machinery
	workOrders := s.workOrders
	maintenance := s.maintenance
	fuelLoads := s.fuelLoads
	spareParts := s.spareParts
	partMovements := s.partMovements
	incidents := s.incidents
	users := s.users
	s.mu.Unlock()

	s.store.Save(keyMachinery, machinery)
	s.store.Save(keyWorkOrders, workOrders)
	s.store.Save(keyMaintenance, maintenance)
	s.store.Save(keyFuelLoads, fuelLoads)
	s.store.Save(keySpareParts, spareParts)
	s.store.Save(keyPartMovements, partMovements)
	s.store.Save(keyIncidents, incidents)
	s.store.Save(keyUsers, users)
}

func markMachinery(in []models.Machinery, o models.Origin) []models.Machinery {
	out := make([]models.Machinery, len(in))
	for i, v := range in {
		v.Origin = o
		out[i] = v
	}
	return out
}

func markWorkOrders(in []models.WorkOrder, o models.Origin) []models.WorkOrder {
	out := make([]models.WorkOrder, len(in))
	for i, v := range in {
		v.Origin = o
		out[i] = v
	}
	return out
}

func markMaintenance(in []models.Maintenance, o models.Origin) []models.Maintenance {
	out := make([]models.Maintenance, len(in))
	for i, v := range in {
		v.Origin = o
		out[i] = v
	}
	return out
}

func markFuelLoads(in []models.FuelLoad, o models.Origin) []models.FuelLoad {
	out := make([]models.FuelLoad, len(in))
	for i, v := range in {
		v.Origin = o
		out[i] = v
	}
	return out
}

func markSpareParts(in []models.SparePart, o models.Origin) []models.SparePart {
	out := make([]models.SparePart, len(in))
	for i, v := range in {
		v.Origin = o
		out[i] = v
	}
	return out
}

func markPartMovements(in []models.PartMovement, o models.Origin) []models.PartMovement {
	out := make([]models.PartMovement, len(in))
	for i, v := range in {
		v.Origin = o
		out[i] = v
	}
	return out
}

func markIncidents(in []models.Incident, o models.Origin) []models.Incident {
	out := make([]models.Incident, len(in))
	for i, v := range in {
		v.Origin = o
		out[i] = v
	}
	return out
}

func markUsers(in []models.User, o models.Origin) []models.User {
	out := make([]models.User, len(in))
	for i, v := range in {
		v.Origin = o
		out[i] = v
	}
	return out
}
