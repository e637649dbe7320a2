// Package gateway defines the remote data gateway the core depends on:
// a typed query/insert/update/delete surface over the hosted relational
// store plus attachment storage. Errors crossing this boundary carry a
// structural Kind so callers never classify by message text.
package gateway

import (
	"context"

	"example.com/agrotrack/services/fleet/internal/models"
)

// Dataset is the result of the bulk fetch performed at session start.
type Dataset struct {
	Machinery     []models.Machinery
	WorkOrders    []models.WorkOrder
	Maintenance   []models.Maintenance
	FuelLoads     []models.FuelLoad
	SpareParts    []models.SparePart
	PartMovements []models.PartMovement
	Incidents     []models.Incident
	Users         []models.User
}

// Gateway is the remote data gateway contract.
type Gateway interface {
	// FetchAll loads every collection in one pass. A KindSessionCorrupted
	// error from this path signals the destructive recovery.
	FetchAll(ctx context.Context) (*Dataset, error)

	// Work-order identifier allocation support.
	NextWorkOrderSeq(ctx context.Context) (int, error)
	LatestWorkOrder(ctx context.Context) (*models.WorkOrder, error)

	InsertWorkOrder(ctx context.Context, wo *models.WorkOrder) (*models.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, id string, fields map[string]interface{}) (*models.WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, id string) error

	InsertMachinery(ctx context.Context, m *models.Machinery) (*models.Machinery, error)
	UpdateMachinery(ctx context.Context, id int, fields map[string]interface{}) (*models.Machinery, error)
	DeleteMachinery(ctx context.Context, id int) error

	InsertMaintenance(ctx context.Context, m *models.Maintenance) (*models.Maintenance, error)
	SaveMaintenance(ctx context.Context, m *models.Maintenance) (*models.Maintenance, error)
	DeleteMaintenance(ctx context.Context, id int) error

	InsertFuelLoad(ctx context.Context, fl *models.FuelLoad) (*models.FuelLoad, error)
	UpdateFuelLoad(ctx context.Context, id int, fields map[string]interface{}) (*models.FuelLoad, error)
	DeleteFuelLoad(ctx context.Context, id int) error

	InsertSparePart(ctx context.Context, sp *models.SparePart) (*models.SparePart, error)
	UpdateSparePart(ctx context.Context, id int, fields map[string]interface{}) (*models.SparePart, error)
	DeleteSparePart(ctx context.Context, id int) error

	InsertPartMovement(ctx context.Context, mv *models.PartMovement) (*models.PartMovement, error)
	DeletePartMovement(ctx context.Context, id int) error

	InsertIncident(ctx context.Context, inc *models.Incident) (*models.Incident, error)
	UpdateIncident(ctx context.Context, id int, fields map[string]interface{}) (*models.Incident, error)

	InsertUser(ctx context.Context, u *models.User) (*models.User, error)
	UpdateUser(ctx context.Context, id int, fields map[string]interface{}) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error

	Storage() Storage
	Ping(ctx context.Context) error
}

// Storage stores binary attachments and serves them back by URL.
type Storage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	PublicURL(path string) string
}
