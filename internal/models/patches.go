package models

import "time"

// Patch structs carry partial-field updates. Nil fields are left
// untouched; Fields() renders the set fields as column/value pairs for
// the remote gateway.

// WorkOrderPatch is a partial update of a work order.
type WorkOrderPatch struct {
	Client             *string    `json:"client,omitempty"`
	Field              *string    `json:"field,omitempty"`
	TaskType           *string    `json:"task_type,omitempty"`
	Description        *string    `json:"description,omitempty"`
	Priority           *string    `json:"priority,omitempty"`
	Status             *string    `json:"status,omitempty"`
	PlannedStart       *time.Time `json:"planned_start,omitempty"`
	PlannedEnd         *time.Time `json:"planned_end,omitempty"`
	ActualStart        *time.Time `json:"actual_start,omitempty"`
	ActualEnd          *time.Time `json:"actual_end,omitempty"`
	AssignedMachinery  *IntList   `json:"assigned_machinery,omitempty"`
	TargetHectares     *float64   `json:"target_hectares,omitempty"`
	ActualHectares     *float64   `json:"actual_hectares,omitempty"`
	TargetHours        *float64   `json:"target_hours,omitempty"`
	ActualHours        *float64   `json:"actual_hours,omitempty"`
	ProgressPercentage *float64   `json:"progress_percentage,omitempty"`
	OperatorNotes      *string    `json:"operator_notes,omitempty"`
}

// Fields returns the set fields as column/value pairs.
func (p WorkOrderPatch) Fields() map[string]interface{} {
	f := map[string]interface{}{}
	setString(f, "client", p.Client)
	setString(f, "field", p.Field)
	setString(f, "task_type", p.TaskType)
	setString(f, "description", p.Description)
	setString(f, "priority", p.Priority)
	setString(f, "status", p.Status)
	setTime(f, "planned_start", p.PlannedStart)
	setTime(f, "planned_end", p.PlannedEnd)
	setTime(f, "actual_start", p.ActualStart)
	setTime(f, "actual_end", p.ActualEnd)
	if p.AssignedMachinery != nil {
		f["assigned_machinery"] = *p.AssignedMachinery
	}
	setFloat(f, "target_hectares", p.TargetHectares)
	setFloat(f, "actual_hectares", p.ActualHectares)
	setFloat(f, "target_hours", p.TargetHours)
	setFloat(f, "actual_hours", p.ActualHours)
	setFloat(f, "progress_percentage", p.ProgressPercentage)
	setString(f, "operator_notes", p.OperatorNotes)
	return f
}

// Apply merges the set fields into wo.
func (p WorkOrderPatch) Apply(wo *WorkOrder) {
	if p.Client != nil {
		wo.Client = *p.Client
	}
	if p.Field != nil {
		wo.Field = *p.Field
	}
	if p.TaskType != nil {
		wo.TaskType = *p.TaskType
	}
	if p.Description != nil {
		wo.Description = *p.Description
	}
	if p.Priority != nil {
		wo.Priority = *p.Priority
	}
	if p.Status != nil {
		wo.Status = *p.Status
	}
	if p.PlannedStart != nil {
		wo.PlannedStart = p.PlannedStart
	}
	if p.PlannedEnd != nil {
		wo.PlannedEnd = p.PlannedEnd
	}
	if p.ActualStart != nil {
		wo.ActualStart = p.ActualStart
	}
	if p.ActualEnd != nil {
		wo.ActualEnd = p.ActualEnd
	}
	if p.AssignedMachinery != nil {
		wo.AssignedMachinery = *p.AssignedMachinery
	}
	if p.TargetHectares != nil {
		wo.TargetHectares = *p.TargetHectares
	}
	if p.ActualHectares != nil {
		wo.ActualHectares = *p.ActualHectares
	}
	if p.TargetHours != nil {
		wo.TargetHours = *p.TargetHours
	}
	if p.ActualHours != nil {
		wo.ActualHours = *p.ActualHours
	}
	// Progress is set independently of status; neither recomputes the other.
	if p.ProgressPercentage != nil {
		wo.ProgressPercentage = *p.ProgressPercentage
	}
	if p.OperatorNotes != nil {
		wo.OperatorNotes = *p.OperatorNotes
	}
	wo.UpdatedAt = time.Now()
}

// MachineryPatch is a partial update of a machine.
type MachineryPatch struct {
	Name      *string  `json:"name,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Brand     *string  `json:"brand,omitempty"`
	Model     *string  `json:"model,omitempty"`
	Year      *int     `json:"year,omitempty"`
	HoursUsed *float64 `json:"hours_used,omitempty"`
	Status    *string  `json:"status,omitempty"`
	Location  *string  `json:"location,omitempty"`
	ImageURL  *string  `json:"image_url,omitempty"`
}

// Fields returns the set fields as column/value pairs.
func (p MachineryPatch) Fields() map[string]interface{} {
	f := map[string]interface{}{}
	setString(f, "name", p.Name)
	setString(f, "type", p.Type)
	setString(f, "brand", p.Brand)
	setString(f, "model", p.Model)
	setInt(f, "year", p.Year)
	setFloat(f, "hours_used", p.HoursUsed)
	setString(f, "status", p.Status)
	setString(f, "location", p.Location)
	setString(f, "image_url", p.ImageURL)
	return f
}

// Apply merges the set fields into m.
func (p MachineryPatch) Apply(m *Machinery) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.Brand != nil {
		m.Brand = *p.Brand
	}
	if p.Model != nil {
		m.Model = *p.Model
	}
	if p.Year != nil {
		m.Year = *p.Year
	}
	if p.HoursUsed != nil {
		m.HoursUsed = *p.HoursUsed
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
	if p.ImageURL != nil {
		m.ImageURL = *p.ImageURL
	}
	m.UpdatedAt = time.Now()
}

// SparePartPatch is a partial update of an inventory line.
type SparePartPatch struct {
	Description         *string  `json:"description,omitempty"`
	Category            *string  `json:"category,omitempty"`
	CurrentStock        *int     `json:"current_stock,omitempty"`
	MinimumStock        *int     `json:"minimum_stock,omitempty"`
	UnitCost            *float64 `json:"unit_cost,omitempty"`
	Supplier            *string  `json:"supplier,omitempty"`
	CompatibleMachinery *int     `json:"compatible_machinery,omitempty"`
}

// Fields returns the set fields as column/value pairs.
func (p SparePartPatch) Fields() map[string]interface{} {
	f := map[string]interface{}{}
	setString(f, "description", p.Description)
	setString(f, "category", p.Category)
	setInt(f, "current_stock", p.CurrentStock)
	setInt(f, "minimum_stock", p.MinimumStock)
	setFloat(f, "unit_cost", p.UnitCost)
	setString(f, "supplier", p.Supplier)
	setInt(f, "compatible_machinery", p.CompatibleMachinery)
	return f
}

// Apply merges the set fields into sp.
func (p SparePartPatch) Apply(sp *SparePart) {
	if p.Description != nil {
		sp.Description = *p.Description
	}
	if p.Category != nil {
		sp.Category = *p.Category
	}
	if p.CurrentStock != nil {
		sp.CurrentStock = *p.CurrentStock
	}
	if p.MinimumStock != nil {
		sp.MinimumStock = *p.MinimumStock
	}
	if p.UnitCost != nil {
		sp.UnitCost = *p.UnitCost
	}
	if p.Supplier != nil {
		sp.Supplier = *p.Supplier
	}
	if p.CompatibleMachinery != nil {
		sp.CompatibleMachinery = p.CompatibleMachinery
	}
	sp.UpdatedAt = time.Now()
}

// FuelLoadPatch is a partial update of a fuel load.
type FuelLoadPatch struct {
	Operator     *string    `json:"operator,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Liters       *float64   `json:"liters,omitempty"`
	CostPerLiter *float64   `json:"cost_per_liter,omitempty"`
	TotalCost    *float64   `json:"total_cost,omitempty"`
	Source       *string    `json:"source,omitempty"`
	Location     *string    `json:"location,omitempty"`
}

// Fields returns the set fields as column/value pairs.
func (p FuelLoadPatch) Fields() map[string]interface{} {
	f := map[string]interface{}{}
	setString(f, "operator", p.Operator)
	setTime(f, "date", p.Date)
	setFloat(f, "liters", p.Liters)
	setFloat(f, "cost_per_liter", p.CostPerLiter)
	setFloat(f, "total_cost", p.TotalCost)
	setString(f, "source", p.Source)
	setString(f, "location", p.Location)
	return f
}

// Apply merges the set fields into fl.
func (p FuelLoadPatch) Apply(fl *FuelLoad) {
	if p.Operator != nil {
		fl.Operator = *p.Operator
	}
	if p.Date != nil {
		fl.Date = *p.Date
	}
	if p.Liters != nil {
		fl.Liters = *p.Liters
	}
	if p.CostPerLiter != nil {
		fl.CostPerLiter = *p.CostPerLiter
	}
	if p.TotalCost != nil {
		fl.TotalCost = *p.TotalCost
	}
	if p.Source != nil {
		fl.Source = *p.Source
	}
	if p.Location != nil {
		fl.Location = *p.Location
	}
	fl.UpdatedAt = time.Now()
}

// UserPatch is a partial update of a user.
type UserPatch struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   *string `json:"role,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// Fields returns the set fields as column/value pairs.
func (p UserPatch) Fields() map[string]interface{} {
	f := map[string]interface{}{}
	setString(f, "name", p.Name)
	setString(f, "email", p.Email)
	setString(f, "role", p.Role)
	if p.Active != nil {
		f["active"] = *p.Active
	}
	return f
}

// Apply merges the set fields into u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Active != nil {
		u.Active = *p.Active
	}
	u.UpdatedAt = time.Now()
}

// IncidentPatch is a partial update of an incident.
type IncidentPatch struct {
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	Severity    *string `json:"severity,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Fields returns the set fields as column/value pairs.
func (p IncidentPatch) Fields() map[string]interface{} {
	f := map[string]interface{}{}
	setString(f, "type", p.Type)
	setString(f, "description", p.Description)
	setString(f, "severity", p.Severity)
	setString(f, "status", p.Status)
	return f
}

// Apply merges the set fields into inc.
func (p IncidentPatch) Apply(inc *Incident) {
	if p.Type != nil {
		inc.Type = *p.Type
	}
	if p.Description != nil {
		inc.Description = *p.Description
	}
	if p.Severity != nil {
		inc.Severity = *p.Severity
	}
	if p.Status != nil {
		inc.Status = *p.Status
	}
}

func setString(f map[string]interface{}, key string, v *string) {
	if v != nil {
		f[key] = *v
	}
}

func setInt(f map[string]interface{}, key string, v *int) {
	if v != nil {
		f[key] = *v
	}
}

func setFloat(f map[string]interface{}, key string, v *float64) {
	if v != nil {
		f[key] = *v
	}
}

func setTime(f map[string]interface{}, key string, v *time.Time) {
	if v != nil {
		f[key] = *v
	}
}
