package usecase

import (
	"context"

	"github.com/jhoicas/VentasCampo-api/internal/application/dto"
	"github.com/jhoicas/VentasCampo-api/internal/domain"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/internal/domain/repository"
)

// WarehouseUseCase consultas de bodegas y de su ledger (visibilidad operativa).
type WarehouseUseCase struct {
	repo   repository.WarehouseRepository
	ledger repository.StockLedgerRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository, ledger repository.StockLedgerRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, ledger: ledger}
}

// List lista bodegas del tenant con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, tenantID string, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Stock lista las filas del ledger de una bodega del tenant.
func (uc *WarehouseUseCase) Stock(ctx context.Context, tenantID, warehouseID string, limit, offset int) (*dto.StockLedgerListResponse, error) {
	wh, err := uc.repo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if wh.TenantID != tenantID {
		return nil, domain.ErrForbidden
	}
	entries, err := uc.ledger.ListByWarehouse(ctx, tenantID, warehouseID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockLedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.StockLedgerEntryResponse{
			ProductID:        e.ProductID,
			WarehouseID:      e.WarehouseID,
			QuantityOnHand:   e.QuantityOnHand,
			QuantityReserved: e.QuantityReserved,
			Available:        e.Available(),
			UpdatedAt:        e.UpdatedAt,
		})
	}
	return &dto.StockLedgerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		IsDefault: w.IsDefault,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
