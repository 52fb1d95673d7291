package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
	"github.com/transvia/fleet-office/internal/validate"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *model.Vehicle) error
	Update(ctx context.Context, vehicle *model.Vehicle) error
	Get(ctx context.Context, id int64) (*model.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (model.Vehicle, bool, error)
	List(ctx context.Context) ([]model.Vehicle, error)
	Delete(ctx context.Context, id int64) error
}

type FuelingRepository interface {
	Create(ctx context.Context, fueling *model.Fueling) error
	List(ctx context.Context, vehicleID *int64) ([]model.Fueling, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, maintenance *model.Maintenance) error
	List(ctx context.Context, vehicleID *int64) ([]model.Maintenance, error)
}

type FleetService struct {
	vehicles    VehicleRepository
	fuelings    FuelingRepository
	maintenance MaintenanceRepository
	ops         operationRecorder
	now         func() time.Time
}

func NewFleetService(vehicles VehicleRepository, fuelings FuelingRepository, maintenance MaintenanceRepository, ops oplog.Store, log zerolog.Logger) *FleetService {
	return &FleetService{
		vehicles:    vehicles,
		fuelings:    fuelings,
		maintenance: maintenance,
		ops:         operationRecorder{store: ops, log: log, now: time.Now},
		now:         time.Now,
	}
}

type VehicleInput struct {
	ID               int64
	Placa            string
	Modelo           string
	Marca            string
	Ano              int
	Renavam          *string
	ProprietarioNome string
	ProprietarioDoc  string
	Status           string
}

func (s *FleetService) validateVehicle(input VehicleInput) (*model.Vehicle, error) {
	plate := validate.NormalizePlate(input.Placa)
	if !validate.Plate(plate) {
		return nil, fieldError("placa", "placa inválida")
	}
	plate = strings.ReplaceAll(plate, "-", "")
	if strings.TrimSpace(input.Modelo) == "" {
		return nil, fieldError("modelo", "informe o modelo")
	}
	if strings.TrimSpace(input.Marca) == "" {
		return nil, fieldError("marca", "informe a marca")
	}
	maxYear := s.now().Year() + 1
	if input.Ano < 1950 || input.Ano > maxYear {
		return nil, fieldError("ano", fmt.Sprintf("o ano deve estar entre 1950 e %d", maxYear))
	}
	if input.Renavam != nil {
		digits := validate.Digits(*input.Renavam)
		if len(digits) != 11 {
			return nil, fieldError("renavam", "o RENAVAM deve ter 11 dígitos")
		}
		input.Renavam = &digits
	}
	if strings.TrimSpace(input.ProprietarioNome) == "" {
		return nil, fieldError("proprietario_nome", "informe o proprietário")
	}
	if !validate.TaxID(input.ProprietarioDoc) {
		return nil, fieldError("proprietario_documento", "CPF/CNPJ inválido")
	}
	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = model.DocumentStatusActive
	}

	return &model.Vehicle{
		ID:               input.ID,
		Placa:            plate,
		Modelo:           strings.TrimSpace(input.Modelo),
		Marca:            strings.TrimSpace(input.Marca),
		Ano:              input.Ano,
		Renavam:          input.Renavam,
		ProprietarioNome: strings.TrimSpace(input.ProprietarioNome),
		ProprietarioDoc:  validate.Digits(input.ProprietarioDoc),
		Status:           status,
	}, nil
}

func (s *FleetService) SaveVehicle(ctx context.Context, input VehicleInput) (*model.Vehicle, error) {
	vehicle, err := s.validateVehicle(input)
	if err != nil {
		return nil, err
	}

	existing, found, err := s.vehicles.FindByPlate(ctx, vehicle.Placa)
	if err != nil {
		return nil, err
	}
	if found && existing.ID != vehicle.ID {
		return nil, fmt.Errorf("%w: placa %s já cadastrada", ErrConflict, vehicle.Placa)
	}

	if vehicle.ID <= 0 {
		if err := s.vehicles.Create(ctx, vehicle); err != nil {
			s.ops.record(ctx, model.ModuleVehicles, "criar", false)
			return nil, err
		}
		s.ops.record(ctx, model.ModuleVehicles, "criar", true)
		return vehicle, nil
	}

	if _, err := s.GetVehicle(ctx, vehicle.ID); err != nil {
		return nil, err
	}
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		s.ops.record(ctx, model.ModuleVehicles, "editar", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleVehicles, "editar", true)
	return vehicle, nil
}

func (s *FleetService) GetVehicle(ctx context.Context, id int64) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: veículo %d", ErrNotFound, id)
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *FleetService) DeleteVehicle(ctx context.Context, id int64) error {
	err := s.vehicles.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: veículo %d", ErrNotFound, id)
	}
	s.ops.record(ctx, model.ModuleVehicles, "excluir", err == nil)
	return err
}

func (s *FleetService) ListVehicles(ctx context.Context, search string) ([]model.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx)
	if err != nil {
		return nil, err
	}
	term := normalizeSearch(search)
	result := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if matchesSearch(term, v.Placa, v.Modelo, v.Marca, v.ProprietarioNome, strconv.Itoa(v.Ano)) {
			result = append(result, v)
		}
	}
	return result, nil
}

type FuelingInput struct {
	VeiculoID  int64
	Data       time.Time
	Litros     decimal.Decimal
	ValorTotal decimal.Decimal
	Km         int64
	Posto      string
}

func (s *FleetService) RegisterFueling(ctx context.Context, input FuelingInput) (*model.Fueling, error) {
	switch {
	case input.VeiculoID <= 0:
		return nil, fieldError("veiculo_id", "informe o veículo")
	case input.Data.IsZero():
		return nil, fieldError("data", "informe a data do abastecimento")
	case !input.Litros.IsPositive():
		return nil, fieldError("litros", "a quantidade de litros deve ser maior que zero")
	case !input.ValorTotal.IsPositive():
		return nil, fieldError("valor_total", "o valor total deve ser maior que zero")
	case input.Km < 0:
		return nil, fieldError("km", "a quilometragem não pode ser negativa")
	}
	if _, err := s.GetVehicle(ctx, input.VeiculoID); err != nil {
		return nil, err
	}

	fueling := &model.Fueling{
		VeiculoID:  input.VeiculoID,
		Data:       input.Data,
		Litros:     input.Litros.Round(3),
		ValorTotal: input.ValorTotal.Round(2),
		Km:         input.Km,
		Posto:      strings.TrimSpace(input.Posto),
		Status:     model.DocumentStatusActive,
	}
	if err := s.fuelings.Create(ctx, fueling); err != nil {
		s.ops.record(ctx, model.ModuleFueling, "criar", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleFueling, "criar", true)
	return fueling, nil
}

func (s *FleetService) ListFuelings(ctx context.Context, vehicleID *int64, search string) ([]model.Fueling, error) {
	fuelings, err := s.fuelings.List(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	term := normalizeSearch(search)
	result := make([]model.Fueling, 0, len(fuelings))
	for _, f := range fuelings {
		if matchesSearch(term, f.Posto, f.Status, strconv.FormatInt(f.VeiculoID, 10)) {
			result = append(result, f)
		}
	}
	return result, nil
}

type MaintenanceInput struct {
	VeiculoID int64
	Data      time.Time
	Tipo      model.MaintenanceKind
	Descricao string
	Valor     decimal.Decimal
	Km        int64
}

func (s *FleetService) RegisterMaintenance(ctx context.Context, input MaintenanceInput) (*model.Maintenance, error) {
	switch {
	case input.VeiculoID <= 0:
		return nil, fieldError("veiculo_id", "informe o veículo")
	case input.Data.IsZero():
		return nil, fieldError("data", "informe a data da manutenção")
	case input.Tipo != model.MaintenancePreventive && input.Tipo != model.MaintenanceCorrective:
		return nil, fieldError("tipo", "tipo deve ser preventiva ou corretiva")
	case strings.TrimSpace(input.Descricao) == "":
		return nil, fieldError("descricao", "descreva a manutenção")
	case input.Valor.IsNegative():
		return nil, fieldError("valor", "o valor não pode ser negativo")
	case input.Km < 0:
		return nil, fieldError("km", "a quilometragem não pode ser negativa")
	}
	if _, err := s.GetVehicle(ctx, input.VeiculoID); err != nil {
		return nil, err
	}

	maintenance := &model.Maintenance{
		VeiculoID: input.VeiculoID,
		Data:      input.Data,
		Tipo:      input.Tipo,
		Descricao: strings.TrimSpace(input.Descricao),
		Valor:     input.Valor.Round(2),
		Km:        input.Km,
	}
	if err := s.maintenance.Create(ctx, maintenance); err != nil {
		s.ops.record(ctx, model.ModuleMaintenance, "criar", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleMaintenance, "criar", true)
	return maintenance, nil
}

func (s *FleetService) ListMaintenance(ctx context.Context, vehicleID *int64, search string) ([]model.Maintenance, error) {
	items, err := s.maintenance.List(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	term := normalizeSearch(search)
	result := make([]model.Maintenance, 0, len(items))
	for _, m := range items {
		if matchesSearch(term, string(m.Tipo), m.Descricao, strconv.FormatInt(m.VeiculoID, 10)) {
			result = append(result, m)
		}
	}
	return result, nil
}
