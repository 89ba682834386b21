package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// ModuleService activa y consulta los módulos (quotes, sales) de cada empresa.
type ModuleService struct {
	companyRepo repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{companyRepo: companyRepo}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve error solo ante fallos de infraestructura.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	return s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
}

// SetModule activa o desactiva un módulo; expiresAt nil = sin vencimiento.
func (s *ModuleService) SetModule(ctx context.Context, companyID, moduleName string, active bool, expiresAt *time.Time) error {
	if moduleName != entity.ModuleQuotes && moduleName != entity.ModuleSales {
		return fmt.Errorf("%w: módulo desconocido %q", domain.ErrInvalidInput, moduleName)
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("%w: empresa", domain.ErrNotFound)
	}
	now := time.Now()
	return s.companyRepo.ActivateModule(ctx, &entity.CompanyModule{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ModuleName:  moduleName,
		IsActive:    active,
		ActivatedAt: now,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}
