package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hugelabz/internal/models"
	"github.com/Skotchmaster/hugelabz/internal/service"
	"github.com/Skotchmaster/hugelabz/internal/transport"
	"github.com/Skotchmaster/hugelabz/internal/util"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return serviceError(l, "get_product_failed", err, http.StatusConflict)
	}

	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	page, offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.GetProducts(ctx, c.QueryParam("category"), offset, limit)
	if err != nil {
		l.Error("get_products_error", "status", 500, "reason", "cannot list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, pageResponse(items, total, page, offset, limit))
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	page, offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return serviceError(l, "search_products_error", err, http.StatusConflict)
	}

	return c.JSON(http.StatusOK, pageResponse(items, total, page, offset, limit))
}

func pageResponse(items []models.Product, total int64, page, offset, limit int) transport.ProductListResponse {
	if items == nil {
		items = []models.Product{}
	}
	return transport.ProductListResponse{
		Data: items,
		Meta: transport.PageMeta{
			Page:       page,
			Size:       limit,
			Total:      total,
			TotalPages: (total + int64(limit) - 1) / int64(limit),
			HasPrev:    page > 1,
			HasNext:    int64(offset+limit) < total,
		},
	}
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod := req.Product()
	if err := h.Svc.CreateProduct(ctx, prod); err != nil {
		return serviceError(l, "product_create_error", err, http.StatusConflict)
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.patch")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return serviceError(l, "product_patch_error", err, http.StatusConflict)
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("product_delete_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return serviceError(l, "product_delete_error", err, http.StatusConflict)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		l.Error("list_categories_error", "status", 500, "reason", "cannot list categories", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list categories")
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	cat, err := h.Svc.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		return serviceError(l, "get_category_error", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		return serviceError(l, "category_create_error", err, http.StatusConflict)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("category_update_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("category_update_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.UpdateCategory(ctx, id, req)
	if err != nil {
		return serviceError(l, "category_update_error", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("category_delete_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}
	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return serviceError(l, "category_delete_error", err, http.StatusConflict)
	}
	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}
