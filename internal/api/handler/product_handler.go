package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/api/middleware"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for the product catalog. It trusts the
// guards mounted in front of it: authentication, role and payload checks have
// already passed when a method runs.
type ProductHandler struct {
	service     ports.ProductService
	idempotency ports.IdempotencyStore
	logger      zerolog.Logger
}

// NewProductHandler builds the handler. idempotency may be nil.
func NewProductHandler(service ports.ProductService, idempotency ports.IdempotencyStore, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{service: service, idempotency: idempotency, logger: logger}
}

// Create handles POST /products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string          false  "Replays the first response for a repeated key"
// @Param        body             body      productRequest  true   "Product fields"
// @Success      201              {object}  domain.Product
// @Failure      400              {object}  errorBody
// @Failure      401              {object}  errorBody
// @Failure      409              {object}  errorBody
// @Failure      500              {object}  errorBody
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	in, err := productInput(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	product, err := h.service.Create(ctx, in)
	if err != nil {
		return err
	}

	if key, ok := middleware.IdempotencyKeyFrom(ctx); ok && h.idempotency != nil {
		if err := h.idempotency.Remember(ctx, key, product.Name); err != nil {
			h.logger.Warn().Err(err).Str("name", product.Name).Msg("failed to remember idempotency key")
		}
	}

	return c.JSON(http.StatusCreated, product)
}

// List handles GET /products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /products/:name.
//
// @Summary      Get a product by name
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Exact product name"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /products/{name} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.service.Get(c.Request().Context(), middleware.ProductName(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Update handles PUT /products/:name. Admin only.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string          true  "Exact product name"
// @Param        body  body      productRequest  true  "Fields to change"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Failure      409   {object}  errorBody
// @Router       /products/{name} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	in, err := productInput(c)
	if err != nil {
		return err
	}

	product, err := h.service.Update(c.Request().Context(), middleware.ProductName(c), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /products/:name. Admin only.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Exact product name"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  errorBody
// @Failure      401   {object}  errorBody
// @Failure      403   {object}  errorBody
// @Failure      404   {object}  errorBody
// @Router       /products/{name} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	product, err := h.service.Delete(c.Request().Context(), middleware.ProductName(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func productInput(c echo.Context) (domain.ProductInput, error) {
	in, ok := middleware.ProductInputFrom(c.Request().Context())
	if !ok {
		return domain.ProductInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return in, nil
}
