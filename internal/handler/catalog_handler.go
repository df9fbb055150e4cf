package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"github.com/labstack/echo/v4"
)

const maxPageSize = 500

// CatalogService is the subset of service.CatalogService the handler uses.
type CatalogService[T any] interface {
	Create(ctx context.Context, entity *T) error
	Get(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, q repository.ListQuery) ([]T, error)
	Update(ctx context.Context, id uint, entity *T) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// Filter maps a query parameter onto an equality filter on Column.
type Filter struct {
	Param  string
	Column string
	Parse  func(string) (any, error)
}

func StringFilter(name string) Filter {
	return Filter{Param: name, Column: name, Parse: func(s string) (any, error) { return s, nil }}
}

func UintFilter(name string) Filter {
	return Filter{Param: name, Column: name, Parse: func(s string) (any, error) {
		return strconv.ParseUint(s, 10, 64)
	}}
}

func DateFilter(name string) Filter {
	return Filter{Param: name, Column: name, Parse: func(s string) (any, error) {
		d, err := models.ParseDate(s)
		if err != nil {
			return nil, err
		}
		return d.Time(), nil
	}}
}

type CatalogHandler[T any] struct {
	svc     CatalogService[T]
	filters []Filter
	order   string
}

func NewCatalogHandler[T any](svc CatalogService[T], order string, filters ...Filter) *CatalogHandler[T] {
	return &CatalogHandler[T]{svc: svc, filters: filters, order: order}
}

func (h *CatalogHandler[T]) RegisterRoutes(g *echo.Group, path string) {
	r := g.Group(path)
	r.GET("", h.List)
	r.POST("", h.Create)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

func (h *CatalogHandler[T]) List(c echo.Context) error {
	q := repository.ListQuery{Filters: map[string]any{}, Order: h.order}
	for _, f := range h.filters {
		raw := c.QueryParam(f.Param)
		if raw == "" {
			continue
		}
		v, err := f.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid "+f.Param)
		}
		q.Filters[f.Column] = v
	}

	var err error
	if q.Limit, err = queryInt(c, "limit", maxPageSize); err != nil {
		return err
	}
	if q.Offset, err = queryInt(c, "offset", 0); err != nil {
		return err
	}
	if q.Limit < 0 || q.Offset < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "limit and offset must not be negative")
	}
	if q.Limit == 0 || q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}

	out, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler[T]) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler[T]) Create(c echo.Context) error {
	entity := new(T)
	if err := c.Bind(entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), entity); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, entity)
}

func (h *CatalogHandler[T]) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	entity := new(T)
	if err := c.Bind(entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	out, err := h.svc.Update(c.Request().Context(), id, entity)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler[T]) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
