package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Origin marks where a record was last written.
type Origin string

const (
	// OriginRemote means the record was confirmed by the remote store.
	OriginRemote Origin = "remote"
	// OriginLocal means the record was written locally while the remote
	// store was unreachable and has not been confirmed.
	OriginLocal Origin = "local"
)

// Work order priorities, ordered.
const (
	PriorityLow      = "baja"
	PriorityMedium   = "media"
	PriorityHigh     = "alta"
	PriorityCritical = "critica"
)

// PriorityRank returns the ordering of a priority value. Unknown
// priorities rank below "baja".
func PriorityRank(p string) int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// Work order statuses.
const (
	StatusPlanned    = "planificada"
	StatusInProgress = "en_ejecucion"
	StatusStopped    = "detenida"
	StatusCompleted  = "completada"
	StatusDelayed    = "retrasada"
	StatusCancelled  = "cancelada"
)

// Part movement types.
const (
	MovementIn  = "entrada"
	MovementOut = "salida"
)

// Fuel sources.
const (
	FuelSourceDepot   = "bodega"
	FuelSourceStation = "estacion"
)

// IntList is an integer slice stored as a JSON column.
type IntList []int

// Value implements driver.Valuer.
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal int list")
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *IntList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported int list source type %T", value)
	}
	return errors.Wrap(json.Unmarshal(data, l), "failed to unmarshal int list")
}

// Contains reports whether id is in the list.
func (l IntList) Contains(id int) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Machinery represents one machine of the fleet.
type Machinery struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Type      string    `gorm:"not null" json:"type"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	HoursUsed float64   `json:"hours_used"`
	Status    string    `gorm:"not null;default:activa" json:"status"`
	Location  string    `json:"location"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Origin    Origin    `gorm:"-" json:"origin,omitempty"`
}

// WorkOrder represents one scheduled or active task assigned to a
// client field. Its identifier has the form OT-<year>-<seq> with the
// sequence unique across all time; the year component is cosmetic.
type WorkOrder struct {
	ID                 string     `gorm:"primaryKey" json:"id"`
	Client             string     `gorm:"not null" json:"client"`
	Field              string     `json:"field"`
	TaskType           string     `json:"task_type"`
	Description        string     `json:"description"`
	Priority           string     `gorm:"not null;default:media" json:"priority"`
	Status             string     `gorm:"not null;default:planificada" json:"status"`
	PlannedStart       *time.Time `json:"planned_start"`
	PlannedEnd         *time.Time `json:"planned_end"`
	ActualStart        *time.Time `json:"actual_start"`
	ActualEnd          *time.Time `json:"actual_end"`
	AssignedMachinery  IntList    `gorm:"type:jsonb" json:"assigned_machinery"`
	TargetHectares     float64    `json:"target_hectares"`
	ActualHectares     float64    `json:"actual_hectares"`
	TargetHours        float64    `json:"target_hours"`
	ActualHours        float64    `json:"actual_hours"`
	ProgressPercentage float64    `json:"progress_percentage"`
	OperatorNotes      string     `json:"operator_notes"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	Origin             Origin     `gorm:"-" json:"origin,omitempty"`
}

// Maintenance is a maintenance event for one machine. Cost is the sum
// of the item costs; it is recomputed by the service layer on every
// item change, never by the store.
type Maintenance struct {
	ID          int               `gorm:"primaryKey;autoIncrement" json:"id"`
	MachineryID int               `gorm:"not null;index" json:"machinery_id"`
	Date        time.Time         `json:"date"`
	Type        string            `gorm:"not null" json:"type"`
	Status      string            `gorm:"not null;default:pendiente" json:"status"`
	Cost        float64           `json:"cost"`
	Notes       string            `json:"notes"`
	Items       []MaintenanceItem `gorm:"foreignKey:MaintenanceID" json:"items"`
	PartsUsed   []MaintenancePart `gorm:"foreignKey:MaintenanceID" json:"parts_used"`
	CreatedAt   time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
	Origin      Origin            `gorm:"-" json:"origin,omitempty"`
}

// MaintenanceItem is a single line of work inside a maintenance event.
type MaintenanceItem struct {
	ID             int     `gorm:"primaryKey;autoIncrement" json:"id"`
	MaintenanceID  int     `gorm:"index" json:"maintenance_id"`
	Description    string  `gorm:"not null" json:"description"`
	Cost           float64 `json:"cost"`
	EstimatedHours float64 `json:"estimated_hours"`
	ActualHours    float64 `json:"actual_hours"`
	Priority       string  `json:"priority"`
	Status         string  `json:"status"`
}

// MaintenancePart records a spare part consumed by a maintenance event.
type MaintenancePart struct {
	ID            int     `gorm:"primaryKey;autoIncrement" json:"id"`
	MaintenanceID int     `gorm:"index" json:"maintenance_id"`
	SparePartID   int     `gorm:"not null" json:"spare_part_id"`
	Quantity      int     `gorm:"not null" json:"quantity"`
	UnitCost      float64 `json:"unit_cost"`
}

// FuelLoad is one fuel dispensing event. TotalCost is caller-supplied
// and expected to equal Liters * CostPerLiter; it is a denormalized
// value and is not enforced.
type FuelLoad struct {
	ID           int       `gorm:"primaryKey;autoIncrement" json:"id"`
	MachineryID  int       `gorm:"not null;index" json:"machinery_id"`
	Operator     string    `json:"operator"`
	Date         time.Time `json:"date"`
	Liters       float64   `gorm:"not null" json:"liters"`
	CostPerLiter float64   `json:"cost_per_liter"`
	TotalCost    float64   `json:"total_cost"`
	Source       string    `json:"source"`
	Location     string    `json:"location"`
	PhotoURL     string    `json:"photo_url"`
	ReceiptURL   string    `json:"receipt_url"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Origin       Origin    `gorm:"-" json:"origin,omitempty"`
}

// SparePart is one inventory line. CurrentStock never goes negative;
// the invariant is enforced at the movement-application step, not on
// direct updates.
type SparePart struct {
	ID                  int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Description         string    `gorm:"not null" json:"description"`
	Category            string    `json:"category"`
	CurrentStock        int       `gorm:"not null;default:0" json:"current_stock"`
	MinimumStock        int       `gorm:"not null;default:0" json:"minimum_stock"`
	UnitCost            float64   `json:"unit_cost"`
	Supplier            string    `json:"supplier"`
	CompatibleMachinery *int      `json:"compatible_machinery"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Origin              Origin    `gorm:"-" json:"origin,omitempty"`
}

// PartMovement is an immutable ledger entry recording one stock change.
// Deleting a movement reverses its effect on the part's current stock.
type PartMovement struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	SparePartID int       `gorm:"not null;index" json:"spare_part_id"`
	Type        string    `gorm:"not null" json:"movement_type"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Reason      string    `json:"reason"`
	WorkOrderID *string   `json:"work_order_id"`
	Operator    string    `json:"operator"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	Origin      Origin    `gorm:"-" json:"origin,omitempty"`
}

// Incident is a field incident report tied to a machine.
type Incident struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	MachineryID int       `gorm:"index" json:"machinery_id"`
	WorkOrderID *string   `json:"work_order_id"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Severity    string    `json:"severity"`
	Status      string    `gorm:"default:abierta" json:"status"`
	ReportedBy  string    `json:"reported_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	Origin      Origin    `gorm:"-" json:"origin,omitempty"`
}

// User is an operator or administrator account. Authentication flows
// live outside this service.
type User struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Role      string    `gorm:"default:operador" json:"role"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	Origin    Origin    `gorm:"-" json:"origin,omitempty"`
}

// Notification is a transient in-memory feed item. It is never written
// to the remote store and is lost on restart except for the seeded set.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
	Link      *string   `json:"link,omitempty"`
}

// Notification types.
const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyWarning = "warning"
	NotifyInfo    = "info"
)

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Machinery{},
		&WorkOrder{},
		&Maintenance{},
		&MaintenanceItem{},
		&MaintenancePart{},
		&FuelLoad{},
		&SparePart{},
		&PartMovement{},
		&Incident{},
		&User{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to migrate models")
	}
	return nil
}
