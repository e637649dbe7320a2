package state

import (
	"example.com/agrotrack/services/fleet/internal/models"
)

// --- machinery ---

// Machinery returns a copy of the machinery collection.
func (s *State) Machinery() []models.Machinery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Machinery(nil), s.machinery...)
}

// GetMachinery looks up a machine by id.
func (s *State) GetMachinery(id int) (models.Machinery, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.machinery {
		if m.ID == id {
			return m, true
		}
	}
	return models.Machinery{}, false
}

// UpsertMachinery inserts or replaces a machine by id.
func (s *State) UpsertMachinery(m models.Machinery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.machinery {
		if existing.ID == m.ID {
			next := append([]models.Machinery(nil), s.machinery...)
			next[i] = m
			s.machinery = next
			s.dirty = true
			return
		}
	}
	s.machinery = append([]models.Machinery{m}, s.machinery...)
	s.dirty = true
}

// AddMachineryLocal assigns a local id when none is set and prepends.
func (s *State) AddMachineryLocal(m models.Machinery) models.Machinery {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		maxID := 0
		for _, existing := range s.machinery {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		m.ID = maxID + 1
	}
	s.machinery = append([]models.Machinery{m}, s.machinery...)
	s.dirty = true
	return m
}

// PatchMachinery merges a partial update; silent no-op on unknown id.
func (s *State) PatchMachinery(id int, p models.MachineryPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.machinery {
		if m.ID == id {
			p.Apply(&m)
			next := append([]models.Machinery(nil), s.machinery...)
			next[i] = m
			s.machinery = next
			s.dirty = true
			return true
		}
	}
	return false
}

// RemoveMachinery deletes by id; silent no-op on unknown id.
func (s *State) RemoveMachinery(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.machinery[:0:0]
	for _, m := range s.machinery {
		if m.ID != id {
			next = append(next, m)
		}
	}
	s.machinery = next
	s.dirty = true
}

// --- work orders ---

// WorkOrders returns a copy of the work-order collection.
func (s *State) WorkOrders() []models.WorkOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.WorkOrder(nil), s.workOrders...)
}

// GetWorkOrder looks up a work order by id.
func (s *State) GetWorkOrder(id string) (models.WorkOrder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, wo := range s.workOrders {
		if wo.ID == id {
			return wo, true
		}
	}
	return models.WorkOrder{}, false
}

// UpsertWorkOrder inserts or replaces a work order by id.
func (s *State) UpsertWorkOrder(wo models.WorkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.workOrders {
		if existing.ID == wo.ID {
			next := append([]models.WorkOrder(nil), s.workOrders...)
			next[i] = wo
			s.workOrders = next
			s.dirty = true
			return
		}
	}
	s.workOrders = append([]models.WorkOrder{wo}, s.workOrders...)
	s.dirty = true
}

// PatchWorkOrder merges a partial update; silent no-op on unknown id.
func (s *State) PatchWorkOrder(id string, p models.WorkOrderPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, wo := range s.workOrders {
		if wo.ID == id {
			p.Apply(&wo)
			next := append([]models.WorkOrder(nil), s.workOrders...)
			next[i] = wo
			s.workOrders = next
			s.dirty = true
			return true
		}
	}
	return false
}

// RemoveWorkOrder deletes by id; silent no-op on unknown id.
func (s *State) RemoveWorkOrder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.workOrders[:0:0]
	for _, wo := range s.workOrders {
		if wo.ID != id {
			next = append(next, wo)
		}
	}
	s.workOrders = next
	s.dirty = true
}

// --- maintenance ---

// Maintenance returns a copy of the maintenance collection.
func (s *State) Maintenance() []models.Maintenance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Maintenance(nil), s.maintenance...)
}

// GetMaintenance looks up a maintenance event by id.
func (s *State) GetMaintenance(id int) (models.Maintenance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.maintenance {
		if m.ID == id {
			return m, true
		}
	}
	return models.Maintenance{}, false
}

// UpsertMaintenance inserts or replaces a maintenance event by id.
func (s *State) UpsertMaintenance(m models.Maintenance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.maintenance {
		if existing.ID == m.ID {
			next := append([]models.Maintenance(nil), s.maintenance...)
			next[i] = m
			s.maintenance = next
			s.dirty = true
			return
		}
	}
	s.maintenance = append([]models.Maintenance{m}, s.maintenance...)
	s.dirty = true
}

// AddMaintenanceLocal assigns a local id when none is set and prepends.
func (s *State) AddMaintenanceLocal(m models.Maintenance) models.Maintenance {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		maxID := 0
		for _, existing := range s.maintenance {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		m.ID = maxID + 1
	}
	s.maintenance = append([]models.Maintenance{m}, s.maintenance...)
	s.dirty = true
	return m
}

// RemoveMaintenance deletes by id; silent no-op on unknown id.
func (s *State) RemoveMaintenance(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.maintenance[:0:0]
	for _, m := range s.maintenance {
		if m.ID != id {
			next = append(next, m)
		}
	}
	s.maintenance = next
	s.dirty = true
}

// --- fuel loads ---

// FuelLoads returns a copy of the fuel-load collection.
func (s *State) FuelLoads() []models.FuelLoad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.FuelLoad(nil), s.fuelLoads...)
}

// GetFuelLoad looks up a fuel load by id.
func (s *State) GetFuelLoad(id int) (models.FuelLoad, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fl := range s.fuelLoads {
		if fl.ID == id {
			return fl, true
		}
	}
	return models.FuelLoad{}, false
}

// UpsertFuelLoad inserts or replaces a fuel load by id.
func (s *State) UpsertFuelLoad(fl models.FuelLoad) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.fuelLoads {
		if existing.ID == fl.ID {
			next := append([]models.FuelLoad(nil), s.fuelLoads...)
			next[i] = fl
			s.fuelLoads = next
			s.dirty = true
			return
		}
	}
	s.fuelLoads = append([]models.FuelLoad{fl}, s.fuelLoads...)
	s.dirty = true
}

// AddFuelLoadLocal assigns a local id when none is set and prepends.
func (s *State) AddFuelLoadLocal(fl models.FuelLoad) models.FuelLoad {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fl.ID == 0 {
		maxID := 0
		for _, existing := range s.fuelLoads {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		fl.ID = maxID + 1
	}
	s.fuelLoads = append([]models.FuelLoad{fl}, s.fuelLoads...)
	s.dirty = true
	return fl
}

// PatchFuelLoad merges a partial update; silent no-op on unknown id.
func (s *State) PatchFuelLoad(id int, p models.FuelLoadPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fl := range s.fuelLoads {
		if fl.ID == id {
			p.Apply(&fl)
			next := append([]models.FuelLoad(nil), s.fuelLoads...)
			next[i] = fl
			s.fuelLoads = next
			s.dirty = true
			return true
		}
	}
	return false
}

// RemoveFuelLoad deletes by id; silent no-op on unknown id.
func (s *State) RemoveFuelLoad(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.fuelLoads[:0:0]
	for _, fl := range s.fuelLoads {
		if fl.ID != id {
			next = append(next, fl)
		}
	}
	s.fuelLoads = next
	s.dirty = true
}

// --- spare parts ---

// SpareParts returns a copy of the spare-part collection.
func (s *State) SpareParts() []models.SparePart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SparePart(nil), s.spareParts...)
}

// GetSparePart looks up a part by id.
func (s *State) GetSparePart(id int) (models.SparePart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sp := range s.spareParts {
		if sp.ID == id {
			return sp, true
		}
	}
	return models.SparePart{}, false
}

// UpsertSparePart inserts or replaces a part by id.
func (s *State) UpsertSparePart(sp models.SparePart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.spareParts {
		if existing.ID == sp.ID {
			next := append([]models.SparePart(nil), s.spareParts...)
			next[i] = sp
			s.spareParts = next
			s.dirty = true
			return
		}
	}
	s.spareParts = append([]models.SparePart{sp}, s.spareParts...)
	s.dirty = true
}

// AddSparePartLocal assigns a local id when none is set and prepends.
func (s *State) AddSparePartLocal(sp models.SparePart) models.SparePart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sp.ID == 0 {
		maxID := 0
		for _, existing := range s.spareParts {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		sp.ID = maxID + 1
	}
	s.spareParts = append([]models.SparePart{sp}, s.spareParts...)
	s.dirty = true
	return sp
}

// PatchSparePart merges a partial update; silent no-op on unknown id.
func (s *State) PatchSparePart(id int, p models.SparePartPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sp := range s.spareParts {
		if sp.ID == id {
			p.Apply(&sp)
			next := append([]models.SparePart(nil), s.spareParts...)
			next[i] = sp
			s.spareParts = next
			s.dirty = true
			return true
		}
	}
	return false
}

// RemoveSparePart deletes by id; silent no-op on unknown id.
func (s *State) RemoveSparePart(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.spareParts[:0:0]
	for _, sp := range s.spareParts {
		if sp.ID != id {
			next = append(next, sp)
		}
	}
	s.spareParts = next
	s.dirty = true
}

// --- part movements ---

// PartMovements returns a copy of the movement ledger.
func (s *State) PartMovements() []models.PartMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PartMovement(nil), s.partMovements...)
}

// GetPartMovement looks up a movement by id.
func (s *State) GetPartMovement(id int) (models.PartMovement, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mv := range s.partMovements {
		if mv.ID == id {
			return mv, true
		}
	}
	return models.PartMovement{}, false
}

// UpsertPartMovement inserts or replaces a movement by id.
func (s *State) UpsertPartMovement(mv models.PartMovement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.partMovements {
		if existing.ID == mv.ID {
			next := append([]models.PartMovement(nil), s.partMovements...)
			next[i] = mv
			s.partMovements = next
			s.dirty = true
			return
		}
	}
	s.partMovements = append([]models.PartMovement{mv}, s.partMovements...)
	s.dirty = true
}

// AddPartMovementLocal assigns a local id when none is set and prepends.
func (s *State) AddPartMovementLocal(mv models.PartMovement) models.PartMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mv.ID == 0 {
		maxID := 0
		for _, existing := range s.partMovements {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		mv.ID = maxID + 1
	}
	s.partMovements = append([]models.PartMovement{mv}, s.partMovements...)
	s.dirty = true
	return mv
}

// RemovePartMovement deletes by id; silent no-op on unknown id.
func (s *State) RemovePartMovement(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.partMovements[:0:0]
	for _, mv := range s.partMovements {
		if mv.ID != id {
			next = append(next, mv)
		}
	}
	s.partMovements = next
	s.dirty = true
}

// --- incidents ---

// Incidents returns a copy of the incident collection.
func (s *State) Incidents() []models.Incident {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Incident(nil), s.incidents...)
}

// GetIncident looks up an incident by id.
func (s *State) GetIncident(id int) (models.Incident, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, inc := range s.incidents {
		if inc.ID == id {
			return inc, true
		}
	}
	return models.Incident{}, false
}

// UpsertIncident inserts or replaces an incident by id.
func (s *State) UpsertIncident(inc models.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.incidents {
		if existing.ID == inc.ID {
			next := append([]models.Incident(nil), s.incidents...)
			next[i] = inc
			s.incidents = next
			s.dirty = true
			return
		}
	}
	s.incidents = append([]models.Incident{inc}, s.incidents...)
	s.dirty = true
}

// AddIncidentLocal assigns a local id when none is set and prepends.
func (s *State) AddIncidentLocal(inc models.Incident) models.Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inc.ID == 0 {
		maxID := 0
		for _, existing := range s.incidents {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		inc.ID = maxID + 1
	}
	s.incidents = append([]models.Incident{inc}, s.incidents...)
	s.dirty = true
	return inc
}

// PatchIncident merges a partial update; silent no-op on unknown id.
func (s *State) PatchIncident(id int, p models.IncidentPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, inc := range s.incidents {
		if inc.ID == id {
			p.Apply(&inc)
			next := append([]models.Incident(nil), s.incidents...)
			next[i] = inc
			s.incidents = next
			s.dirty = true
			return true
		}
	}
	return false
}

// --- users ---

// Users returns a copy of the user collection.
func (s *State) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

// GetUser looks up a user by id.
func (s *State) GetUser(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// UpsertUser inserts or replaces a user by id.
func (s *State) UpsertUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.users {
		if existing.ID == u.ID {
			next := append([]models.User(nil), s.users...)
			next[i] = u
			s.users = next
			s.dirty = true
			return
		}
	}
	s.users = append([]models.User{u}, s.users...)
	s.dirty = true
}

// AddUserLocal assigns a local id when none is set and prepends.
func (s *State) AddUserLocal(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		maxID := 0
		for _, existing := range s.users {
			if existing.ID > maxID {
				maxID = existing.ID
			}
		}
		u.ID = maxID + 1
	}
	s.users = append([]models.User{u}, s.users...)
	s.dirty = true
	return u
}

// PatchUser merges a partial update; silent no-op on unknown id.
func (s *State) PatchUser(id int, p models.UserPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.users {
		if u.ID == id {
			p.Apply(&u)
			next := append([]models.User(nil), s.users...)
			next[i] = u
			s.users = next
			s.dirty = true
			return true
		}
	}
	return false
}

// RemoveUser deletes by id; silent no-op on unknown id.
func (s *State) RemoveUser(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.users[:0:0]
	for _, u := range s.users {
		if u.ID != id {
			next = append(next, u)
		}
	}
	s.users = next
	s.dirty = true
}
