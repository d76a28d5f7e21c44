package usecase

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/application/dto"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

// MovementUseCase consultas del historial de movimientos (auditoría).
// El historial es append-only; aquí no hay ninguna escritura.
type MovementUseCase struct {
	repo repository.StockMovementRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(repo repository.StockMovementRepository) *MovementUseCase {
	return &MovementUseCase{repo: repo}
}

// List lista movimientos del tenant, opcionalmente filtrados por producto.
func (uc *MovementUseCase) List(ctx context.Context, tenantID, productID string, limit, offset int) (*dto.StockMovementListResponse, error) {
	var (
		list []*entity.StockMovement
		err  error
	)
	if productID != "" {
		list, err = uc.repo.ListByProduct(ctx, tenantID, productID, limit, offset)
	} else {
		list, err = uc.repo.List(ctx, tenantID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.StockMovementResponse{
			ID:          m.ID,
			Reference:   m.Reference,
			ProductID:   m.ProductID,
			WarehouseID: m.WarehouseID,
			Quantity:    m.Quantity,
			Type:        m.Type,
			Date:        m.Date,
			Reason:      m.Reason,
			Status:      m.Status,
			CreatedBy:   m.CreatedBy,
		})
	}
	return &dto.StockMovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}
