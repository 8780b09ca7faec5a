package supplies

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/dentalsupply/inventory/internal/apperror"
	"github.com/dentalsupply/inventory/internal/middleware"
	"github.com/dentalsupply/inventory/internal/templates/pages"
)

// Handler handles HTTP requests for supplies. Handlers are thin: they bind
// the request, call the service, and render the response.
type Handler struct {
	service SupplyService
}

// NewHandler creates a new supplies handler.
func NewHandler(service SupplyService) *Handler {
	return &Handler{service: service}
}

// List returns supplies, optionally filtered (GET /api/supplies).
func (h *Handler) List(c echo.Context) error {
	filter := ListFilter{
		Name:     c.QueryParam("name"),
		Supplier: c.QueryParam("supplier"),
	}
	if raw := c.QueryParam("lowStock"); raw != "" {
		low, err := strconv.ParseBool(raw)
		if err != nil {
			return apperror.NewValidation("lowStock must be true or false")
		}
		filter.LowStockOnly = low
	}

	items, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one supply (GET /api/supplies/:id).
func (h *Handler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create adds a supply (POST /api/supplies).
func (h *Handler) Create(c echo.Context) error {
	var req SupplyRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	item, err := h.service.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update changes the fields present in the body (PUT /api/supplies/:id).
func (h *Handler) Update(c echo.Context) error {
	var req SupplyRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	item, err := h.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete removes a supply (DELETE /api/supplies/:id).
func (h *Handler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DeleteResponse{Message: "Deleted", ID: id})
}

// Page renders the inventory screen (GET /supplies).
func (h *Handler) Page(c echo.Context) error {
	return middleware.Render(c, http.StatusOK, pages.SuppliesPage())
}
