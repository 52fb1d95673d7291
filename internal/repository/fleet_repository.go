package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *model.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *model.Vehicle) error {
	result := r.db.WithContext(ctx).
		Model(&model.Vehicle{}).
		Where("id = ?", vehicle.ID).
		Updates(map[string]interface{}{
			"placa":                  vehicle.Placa,
			"modelo":                 vehicle.Modelo,
			"marca":                  vehicle.Marca,
			"ano":                    vehicle.Ano,
			"renavam":                vehicle.Renavam,
			"proprietario_nome":      vehicle.ProprietarioNome,
			"proprietario_documento": vehicle.ProprietarioDoc,
			"status":                 vehicle.Status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *VehicleRepository) Get(ctx context.Context, id int64) (*model.Vehicle, error) {
	var vehicle model.Vehicle
	if err := r.db.WithContext(ctx).First(&vehicle, id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *VehicleRepository) FindByPlate(ctx context.Context, plate string) (model.Vehicle, bool, error) {
	var vehicles []model.Vehicle
	if err := r.db.WithContext(ctx).Where("placa = ?", plate).Limit(1).Find(&vehicles).Error; err != nil {
		return model.Vehicle{}, false, err
	}
	if len(vehicles) == 0 {
		return model.Vehicle{}, false, nil
	}
	return vehicles[0], true, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]model.Vehicle, error) {
	var vehicles []model.Vehicle
	if err := r.db.WithContext(ctx).Order("placa ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Vehicle{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type FuelingRepository struct {
	db *gorm.DB
}

func NewFuelingRepository(db *gorm.DB) *FuelingRepository {
	return &FuelingRepository{db: db}
}

func (r *FuelingRepository) Create(ctx context.Context, fueling *model.Fueling) error {
	return r.db.WithContext(ctx).Create(fueling).Error
}

func (r *FuelingRepository) List(ctx context.Context, vehicleID *int64) ([]model.Fueling, error) {
	var fuelings []model.Fueling
	query := r.db.WithContext(ctx).Order("data DESC, id DESC")
	if vehicleID != nil {
		query = query.Where("veiculo_id = ?", *vehicleID)
	}
	if err := query.Find(&fuelings).Error; err != nil {
		return nil, err
	}
	return fuelings, nil
}

type MaintenanceRepository struct {
	db *gorm.DB
}

func NewMaintenanceRepository(db *gorm.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

func (r *MaintenanceRepository) Create(ctx context.Context, maintenance *model.Maintenance) error {
	return r.db.WithContext(ctx).Create(maintenance).Error
}

func (r *MaintenanceRepository) List(ctx context.Context, vehicleID *int64) ([]model.Maintenance, error) {
	var items []model.Maintenance
	query := r.db.WithContext(ctx).Order("data DESC, id DESC")
	if vehicleID != nil {
		query = query.Where("veiculo_id = ?", *vehicleID)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
