package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/storerating-api/internal/application/analytics"
	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/application/usecase"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/infrastructure/metrics"
)

// StoreHandler endpoints of /stores.
type StoreHandler struct {
	stores    *usecase.StoreUseCase
	dashboard *appanalytics.DashboardUseCase
	metrics   *metrics.Metrics
}

// NewStoreHandler builds the handler.
func NewStoreHandler(stores *usecase.StoreUseCase, dashboard *appanalytics.DashboardUseCase, m *metrics.Metrics) *StoreHandler {
	return &StoreHandler{stores: stores, dashboard: dashboard, metrics: m}
}

// List godoc
// @Summary      List stores with filters, sorting and pagination
// @Tags         stores
// @Produce      json
// @Param        name       query  string  false  "Name contains"
// @Param        email      query  string  false  "Email contains"
// @Param        address    query  string  false  "Address contains"
// @Param        sortBy     query  string  false  "Sort field"  Enums(name, email, address, createdAt, rating)
// @Param        sortOrder  query  string  false  "asc or desc"
// @Param        page       query  int     false  "Page"   default(1)
// @Param        limit      query  int     false  "Limit"  default(10)
// @Success      200  {object}  dto.APIResponse{data=dto.StoreListResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /v1/api/stores/all [get]
func (h *StoreHandler) List(c *fiber.Ctx) error {
	var f dto.StoreFilter
	if err := parseQuery(c, &f); err != nil {
		return err
	}
	out, err := h.stores.List(c.UserContext(), f)
	if err != nil {
		return err
	}
	return ok(c, out, "Stores retrieved successfully")
}

// Search godoc
// @Summary      Search stores by name or address
// @Tags         stores
// @Produce      json
// @Param        query  query  string  true   "At least 2 characters"
// @Param        page   query  int     false  "Page"   default(1)
// @Param        limit  query  int     false  "Limit"  default(10)
// @Success      200  {object}  dto.APIResponse{data=dto.StoreListResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /v1/api/stores/search [get]
func (h *StoreHandler) Search(c *fiber.Ctx) error {
	var q dto.StoreSearchQuery
	if err := parseQuery(c, &q); err != nil {
		return err
	}
	out, err := h.stores.Search(c.UserContext(), q)
	if err != nil {
		return err
	}
	return ok(c, out, "Search results retrieved successfully")
}

// Get godoc
// @Summary      Store detail with its ratings
// @Tags         stores
// @Produce      json
// @Param        id   path      string  true  "Store ID"
// @Success      200  {object}  dto.APIResponse{data=dto.StoreDetailResponse}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/api/stores/{id} [get]
func (h *StoreHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrStoreNotFound)
	if err != nil {
		return err
	}
	out, err := h.stores.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, out, "Store retrieved successfully")
}

// Create godoc
// @Summary      Create a store for an owner
// @Description  The owner is promoted to STORE_OWNER in the same transaction.
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateStoreRequest  true  "name, email, address, ownerId"
// @Success      201   {object}  dto.APIResponse{data=dto.StoreResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/stores/create [post]
func (h *StoreHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStoreRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.stores.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	h.metrics.StoreCreated()
	return created(c, out, "Store created successfully")
}

// Update godoc
// @Summary      Update a store
// @Tags         stores
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Store ID"
// @Param        body  body      dto.UpdateStoreRequest  true  "name, email, address"
// @Success      200   {object}  dto.APIResponse{data=dto.StoreResponse}
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /v1/api/stores/{id} [put]
func (h *StoreHandler) Update(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrStoreNotFound)
	if err != nil {
		return err
	}
	var in dto.UpdateStoreRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.stores.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return ok(c, out, "Store updated successfully")
}

// Delete godoc
// @Summary      Delete a store and its ratings
// @Description  The owner is demoted to NORMAL_USER in the same transaction.
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Store ID"
// @Success      200  {object}  dto.APIResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/api/stores/{id} [delete]
func (h *StoreHandler) Delete(c *fiber.Ctx) error {
	id, err := idParam(c, "id", domain.ErrStoreNotFound)
	if err != nil {
		return err
	}
	if err := h.stores.Delete(c.UserContext(), id); err != nil {
		return err
	}
	h.metrics.StoreDeleted()
	return ok(c, nil, "Store deleted successfully")
}

// OwnerDashboard godoc
// @Summary      Dashboard of the owner's store
// @Tags         stores
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.APIResponse{data=dto.OwnerDashboard}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/api/stores/dashboard/owner [get]
func (h *StoreHandler) OwnerDashboard(c *fiber.Ctx) error {
	out, err := h.dashboard.OwnerDashboard(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return ok(c, out, "Store dashboard data retrieved successfully")
}

// OwnerReport godoc
// @Summary      Rating report of the owner's store as PDF
// @Tags         stores
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /v1/api/stores/dashboard/owner/report [get]
func (h *StoreHandler) OwnerReport(c *fiber.Ctx) error {
	doc, filename, err := h.dashboard.OwnerReport(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(doc)
}
