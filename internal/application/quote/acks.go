package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/quoting"
)

// MarkEmpty marca un rubro como "Sin contenido" en el alcance indicado (o el actual).
// Marcar dos veces el mismo alcance devuelve la marca existente.
func (uc *QuoteUseCase) MarkEmpty(ctx context.Context, companyID, userID, quoteID string, in dto.AckRequest) (*dto.AckResponse, error) {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	scope, err := uc.ackScope(ctx, q, in)
	if err != nil {
		return nil, err
	}
	acks, err := uc.acks.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	for _, a := range acks {
		if a.SiteID == scope.SiteID && a.ServiceType == scope.ServiceType && a.RubroCode == in.RubroCode {
			return toAckResponse(a), nil
		}
	}
	ack := &entity.RubroAck{
		ID:          uuid.New().String(),
		QuoteID:     q.ID,
		SiteID:      scope.SiteID,
		ServiceType: scope.ServiceType,
		RubroCode:   in.RubroCode,
		CreatedBy:   userID,
		CreatedAt:   time.Now(),
	}
	if err := uc.acks.Create(ctx, ack); err != nil {
		return nil, err
	}
	return toAckResponse(ack), nil
}

// UnmarkEmpty quita la marca "Sin contenido".
func (uc *QuoteUseCase) UnmarkEmpty(ctx context.Context, companyID, quoteID string, in dto.AckRequest) error {
	q, err := loadEditable(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return err
	}
	scope, err := uc.ackScope(ctx, q, in)
	if err != nil {
		return err
	}
	deleted, err := uc.acks.Delete(ctx, q.ID, scope.SiteID, scope.ServiceType, in.RubroCode)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: marca", domain.ErrNotFound)
	}
	return nil
}

// ListAcks marcas "Sin contenido" de la cotización.
func (uc *QuoteUseCase) ListAcks(ctx context.Context, companyID, quoteID string) ([]dto.AckResponse, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	acks, err := uc.acks.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AckResponse, 0, len(acks))
	for _, a := range acks {
		out = append(out, *toAckResponse(a))
	}
	return out, nil
}

// RubroStates semáforo y conteos de los 14 rubros. Sitio y tipo vacíos toman los actuales.
func (uc *QuoteUseCase) RubroStates(ctx context.Context, companyID, quoteID, siteID, serviceType string) (*dto.RubroStatesResponse, error) {
	q, err := loadQuote(ctx, uc.quotes, companyID, quoteID)
	if err != nil {
		return nil, err
	}
	scope := currentScope(q, siteID, serviceType)
	lines, err := uc.scopedLines(ctx, q)
	if err != nil {
		return nil, err
	}
	acks, err := uc.acks.ListByQuote(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	names, err := uc.rubroNames(ctx, q.CompanyID)
	if err != nil {
		return nil, err
	}
	states := quoting.RubroStates(lines, acks, scope)
	out := &dto.RubroStatesResponse{
		SiteID:      scope.SiteID,
		ServiceType: scope.ServiceType,
		HasRed:      quoting.HasRed(states),
		Rubros:      make([]dto.RubroStateResponse, 0, len(states)),
	}
	for _, s := range states {
		out.Rubros = append(out.Rubros, dto.RubroStateResponse{
			Code:  s.Code,
			Name:  names[s.Code],
			Count: s.Count,
			State: s.State.String(),
			Color: s.State.Color(),
		})
	}
	return out, nil
}

// ackScope valida el alcance de una marca: rubro del catálogo, sitio de la cotización y tipo de servicio.
func (uc *QuoteUseCase) ackScope(ctx context.Context, q *entity.Quote, in dto.AckRequest) (quoting.Scope, error) {
	if !entity.IsRubroCode(in.RubroCode) {
		return quoting.Scope{}, fmt.Errorf("%w: rubro inválido", domain.ErrInvalidInput)
	}
	scope := currentScope(q, in.SiteID, in.ServiceType)
	if scope.SiteID == "" || scope.ServiceType == "" {
		return scope, fmt.Errorf("%w: selecciona sitio y tipo de servicio", domain.ErrInvalidInput)
	}
	if !entity.IsServiceType(scope.ServiceType) {
		return scope, fmt.Errorf("%w: service_type inválido", domain.ErrInvalidInput)
	}
	if _, err := uc.siteOf(ctx, q, scope.SiteID); err != nil {
		return scope, err
	}
	return scope, nil
}

// currentScope completa sitio y tipo vacíos con los actuales de la cotización.
func currentScope(q *entity.Quote, siteID, serviceType string) quoting.Scope {
	if siteID == "" && q.CurrentSiteID != nil {
		siteID = *q.CurrentSiteID
	}
	if serviceType == "" {
		serviceType = q.CurrentServiceType
	}
	return quoting.Scope{SiteID: siteID, ServiceType: serviceType}
}

// rubroNames nombres configurados de los rubros, con el nombre fijo como respaldo.
func (uc *QuoteUseCase) rubroNames(ctx context.Context, companyID string) (map[string]string, error) {
	names := make(map[string]string, len(entity.RubroCodes))
	for _, code := range entity.RubroCodes {
		names[code] = entity.RubroLabel(code)
	}
	rubros, err := uc.rubros.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, r := range rubros {
		if r.Name != "" {
			names[r.Code] = r.Name
		}
	}
	return names, nil
}

func toAckResponse(a *entity.RubroAck) *dto.AckResponse {
	return &dto.AckResponse{
		ID:          a.ID,
		SiteID:      a.SiteID,
		ServiceType: a.ServiceType,
		RubroCode:   a.RubroCode,
	}
}
