package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/VentasCampo-api/internal/application/dto"
	"github.com/jhoicas/VentasCampo-api/internal/application/usecase"
)

// InventoryHandler maneja las peticiones HTTP de la bitácora de movimientos.
type InventoryHandler struct {
	movements *usecase.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *usecase.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{movements: movements}
}

// ListMovements godoc
// @Summary      Bitácora de movimientos de inventario
// @Description  Movimientos del tenant, más recientes primero. Filtrable por producto.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto (UUID)"
// @Param        limit       query  int     false  "Tamaño de página (default 20)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.StockMovementListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	page := parsePage(c)
	resp, err := h.movements.List(c.Context(), tenantID, c.Query("product_id"), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	return c.JSON(resp)
}

// parsePage extrae limit/offset del query string con los defaults del DTO.
func parsePage(c *fiber.Ctx) dto.PageRequest {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.DefaultPage()
	return page
}
