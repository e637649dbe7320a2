package gateway

import (
	"context"
	"encoding/json"
	"time"

	"example.com/agrotrack/services/fleet/internal/cache"
	"example.com/agrotrack/services/fleet/internal/models"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const latestWorkOrderTTL = 30 * time.Second

// gormGateway implements Gateway over a GORM/Postgres connection with
// an optional redis read-through cache.
type gormGateway struct {
	db      *gorm.DB
	cache   *cache.RedisCache
	storage Storage
}

// New creates a gateway over db. cache and storage may be nil; a nil
// storage disables attachment uploads.
func New(db *gorm.DB, redisCache *cache.RedisCache, storage Storage) Gateway {
	return &gormGateway{db: db, cache: redisCache, storage: storage}
}

func classifyDB(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrap(KindNotFound, op, err)
	}
	return wrap(KindTransient, op, err)
}

// classifyBulk upgrades malformed-payload signatures on the bulk-fetch
// path to KindSessionCorrupted. Only structural JSON decode failures
// qualify; connection problems stay transient.
func classifyBulk(op string, err error) error {
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, gorm.ErrInvalidData) {
		return wrap(KindSessionCorrupted, op, err)
	}
	return classifyDB(op, err)
}

// FetchAll loads every collection in one pass.
func (g *gormGateway) FetchAll(ctx context.Context) (*Dataset, error) {
	db := g.db.WithContext(ctx)
	ds := &Dataset{}

	if err := db.Order("id").Find(&ds.Machinery).Error; err != nil {
		return nil, classifyBulk("fetch machinery", err)
	}
	if err := db.Order("created_at DESC").Find(&ds.WorkOrders).Error; err != nil {
		return nil, classifyBulk("fetch work orders", err)
	}
	if err := db.Preload("Items").Preload("PartsUsed").Order("date DESC").Find(&ds.Maintenance).Error; err != nil {
		return nil, classifyBulk("fetch maintenance", err)
	}
	if err := db.Order("date DESC").Find(&ds.FuelLoads).Error; err != nil {
		return nil, classifyBulk("fetch fuel loads", err)
	}
	if err := db.Order("id").Find(&ds.SpareParts).Error; err != nil {
		return nil, classifyBulk("fetch spare parts", err)
	}
	if err := db.Order("date DESC").Find(&ds.PartMovements).Error; err != nil {
		return nil, classifyBulk("fetch part movements", err)
	}
	if err := db.Order("date DESC").Find(&ds.Incidents).Error; err != nil {
		return nil, classifyBulk("fetch incidents", err)
	}
	if err := db.Order("id").Find(&ds.Users).Error; err != nil {
		return nil, classifyBulk("fetch users", err)
	}

	return ds, nil
}

// NextWorkOrderSeq reserves the next value of the work-order sequence.
func (g *gormGateway) NextWorkOrderSeq(ctx context.Context) (int, error) {
	var seq int
	err := g.db.WithContext(ctx).Raw("SELECT nextval('work_order_seq')").Scan(&seq).Error
	if err != nil {
		return 0, classifyDB("next work order seq", err)
	}
	return seq, nil
}

// LatestWorkOrder returns the most recently created work order, or nil
// when none exist.
func (g *gormGateway) LatestWorkOrder(ctx context.Context) (*models.WorkOrder, error) {
	if g.cache.Enabled() {
		var cached models.WorkOrder
		if err := g.cache.Get(ctx, cache.LatestWorkOrderKey, &cached); err == nil {
			return &cached, nil
		}
	}

	var rows []models.WorkOrder
	err := g.db.WithContext(ctx).Order("created_at DESC").Limit(1).Find(&rows).Error
	if err != nil {
		return nil, classifyDB("latest work order", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	if g.cache.Enabled() {
		if err := g.cache.Set(ctx, cache.LatestWorkOrderKey, rows[0], latestWorkOrderTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache latest work order")
		}
	}
	return &rows[0], nil
}

func (g *gormGateway) InsertWorkOrder(ctx context.Context, wo *models.WorkOrder) (*models.WorkOrder, error) {
	if err := g.db.WithContext(ctx).Create(wo).Error; err != nil {
		return nil, classifyDB("insert work order", err)
	}
	if g.cache.Enabled() {
		if err := g.cache.Delete(ctx, cache.LatestWorkOrderKey); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate latest work order cache")
		}
	}
	return wo, nil
}

func (g *gormGateway) UpdateWorkOrder(ctx context.Context, id string, fields map[string]interface{}) (*models.WorkOrder, error) {
	var out models.WorkOrder
	err := g.update(ctx, "update work order", &models.WorkOrder{}, "id = ?", id, fields, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gormGateway) DeleteWorkOrder(ctx context.Context, id string) error {
	err := g.db.WithContext(ctx).Delete(&models.WorkOrder{}, "id = ?", id).Error
	return classifyDB("delete work order", err)
}

func (g *gormGateway) InsertMachinery(ctx context.Context, m *models.Machinery) (*models.Machinery, error) {
	if err := g.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, classifyDB("insert machinery", err)
	}
	return m, nil
}

func (g *gormGateway) UpdateMachinery(ctx context.Context, id int, fields map[string]interface{}) (*models.Machinery, error) {
	var out models.Machinery
	if err := g.update(ctx, "update machinery", &models.Machinery{}, "id = ?", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gormGateway) DeleteMachinery(ctx context.Context, id int) error {
	err := g.db.WithContext(ctx).Delete(&models.Machinery{}, id).Error
	return classifyDB("delete machinery", err)
}

func (g *gormGateway) InsertMaintenance(ctx context.Context, m *models.Maintenance) (*models.Maintenance, error) {
	if err := g.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, classifyDB("insert maintenance", err)
	}
	return m, nil
}

// SaveMaintenance replaces a maintenance record together with its items
// and part usage.
func (g *gormGateway) SaveMaintenance(ctx context.Context, m *models.Maintenance) (*models.Maintenance, error) {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Maintenance
		if err := tx.First(&existing, m.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("maintenance_id = ?", m.ID).Delete(&models.MaintenanceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("maintenance_id = ?", m.ID).Delete(&models.MaintenancePart{}).Error; err != nil {
			return err
		}
		return tx.Save(m).Error
	})
	if err != nil {
		return nil, classifyDB("save maintenance", err)
	}
	return m, nil
}

func (g *gormGateway) DeleteMaintenance(ctx context.Context, id int) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("maintenance_id = ?", id).Delete(&models.MaintenanceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("maintenance_id = ?", id).Delete(&models.MaintenancePart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Maintenance{}, id).Error
	})
	return classifyDB("delete maintenance", err)
}

func (g *gormGateway) InsertFuelLoad(ctx context.Context, fl *models.FuelLoad) (*models.FuelLoad, error) {
	if err := g.db.WithContext(ctx).Create(fl).Error; err != nil {
		return nil, classifyDB("insert fuel load", err)
	}
	return fl, nil
}

func (g *gormGateway) UpdateFuelLoad(ctx context.Context, id int, fields map[string]interface{}) (*models.FuelLoad, error) {
	var out models.FuelLoad
	if err := g.update(ctx, "update fuel load", &models.FuelLoad{}, "id = ?", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gormGateway) DeleteFuelLoad(ctx context.Context, id int) error {
	err := g.db.WithContext(ctx).Delete(&models.FuelLoad{}, id).Error
	return classifyDB("delete fuel load", err)
}

func (g *gormGateway) InsertSparePart(ctx context.Context, sp *models.SparePart) (*models.SparePart, error) {
	if err := g.db.WithContext(ctx).Create(sp).Error; err != nil {
		return nil, classifyDB("insert spare part", err)
	}
	return sp, nil
}

func (g *gormGateway) UpdateSparePart(ctx context.Context, id int, fields map[string]interface{}) (*models.SparePart, error) {
	var out models.SparePart
	if err := g.update(ctx, "update spare part", &models.SparePart{}, "id = ?", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gormGateway) DeleteSparePart(ctx context.Context, id int) error {
	err := g.db.WithContext(ctx).Delete(&models.SparePart{}, id).Error
	return classifyDB("delete spare part", err)
}

func (g *gormGateway) InsertPartMovement(ctx context.Context, mv *models.PartMovement) (*models.PartMovement, error) {
	if err := g.db.WithContext(ctx).Create(mv).Error; err != nil {
		return nil, classifyDB("insert part movement", err)
	}
	return mv, nil
}

func (g *gormGateway) DeletePartMovement(ctx context.Context, id int) error {
	err := g.db.WithContext(ctx).Delete(&models.PartMovement{}, id).Error
	return classifyDB("delete part movement", err)
}

func (g *gormGateway) InsertIncident(ctx context.Context, inc *models.Incident) (*models.Incident, error) {
	if err := g.db.WithContext(ctx).Create(inc).Error; err != nil {
		return nil, classifyDB("insert incident", err)
	}
	return inc, nil
}

func (g *gormGateway) UpdateIncident(ctx context.Context, id int, fields map[string]interface{}) (*models.Incident, error) {
	var out models.Incident
	if err := g.update(ctx, "update incident", &models.Incident{}, "id = ?", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gormGateway) InsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	if err := g.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, classifyDB("insert user", err)
	}
	return u, nil
}

func (g *gormGateway) UpdateUser(ctx context.Context, id int, fields map[string]interface{}) (*models.User, error) {
	var out models.User
	if err := g.update(ctx, "update user", &models.User{}, "id = ?", id, fields, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *gormGateway) DeleteUser(ctx context.Context, id int) error {
	err := g.db.WithContext(ctx).Delete(&models.User{}, id).Error
	return classifyDB("delete user", err)
}

func (g *gormGateway) Storage() Storage {
	return g.storage
}

func (g *gormGateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return wrap(KindTransient, "ping", err)
	}
	return wrap(KindTransient, "ping", sqlDB.PingContext(ctx))
}

// update applies a partial-field update and reloads the row. A zero
// rows-affected result classifies as not found.
func (g *gormGateway) update(ctx context.Context, op string, model interface{}, cond string, id interface{}, fields map[string]interface{}, out interface{}) error {
	tx := g.db.WithContext(ctx).Model(model).Where(cond, id).Updates(fields)
	if tx.Error != nil {
		return classifyDB(op, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return wrap(KindNotFound, op, gorm.ErrRecordNotFound)
	}
	if err := g.db.WithContext(ctx).Where(cond, id).First(out).Error; err != nil {
		return classifyDB(op, err)
	}
	return nil
}
