package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Eursukkul/hotel-pms/internal/dto"
	"github.com/Eursukkul/hotel-pms/internal/service"
	"github.com/labstack/echo/v4"
)

type FinanceHandler struct {
	svc service.FinanceService
	now func() time.Time
}

func NewFinanceHandler(svc service.FinanceService) *FinanceHandler {
	return &FinanceHandler{svc: svc, now: time.Now}
}

func (h *FinanceHandler) RegisterRoutes(g *echo.Group) {
	f := g.Group("/finance")
	f.GET("/dashboard", h.Dashboard)
	f.GET("/revenue", h.RevenueByMonth)
	f.PUT("/budgets/:year/:month", h.SetBudget)
	f.PUT("/targets/:year/:month", h.SetTarget)
}

// Dashboard defaults to the current month.
func (h *FinanceHandler) Dashboard(c echo.Context) error {
	now := h.now()
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return err
	}
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		return err
	}

	d, err := h.svc.Dashboard(c.Request().Context(), year, month)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *FinanceHandler) RevenueByMonth(c echo.Context) error {
	year, err := queryInt(c, "year", h.now().Year())
	if err != nil {
		return err
	}
	out, err := h.svc.RevenueByMonth(c.Request().Context(), year)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceHandler) SetBudget(c echo.Context) error {
	year, month, amount, err := periodAmount(c)
	if err != nil {
		return err
	}
	out, err := h.svc.SetBudget(c.Request().Context(), year, month, amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *FinanceHandler) SetTarget(c echo.Context) error {
	year, month, amount, err := periodAmount(c)
	if err != nil {
		return err
	}
	out, err := h.svc.SetTarget(c.Request().Context(), year, month, amount)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func periodAmount(c echo.Context) (year, month int, amount float64, err error) {
	if year, err = strconv.Atoi(c.Param("year")); err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid year")
	}
	if month, err = strconv.Atoi(c.Param("month")); err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid month")
	}
	var req dto.AmountRequest
	if err = c.Bind(&req); err != nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Amount == nil {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "amount is required")
	}
	return year, month, *req.Amount, nil
}

type MemberHandler struct {
	svc service.MemberService
}

func NewMemberHandler(svc service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

func (h *MemberHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/loyalty-members", h.List)
	g.GET("/loyalty-members/:code", h.Get)
}

func (h *MemberHandler) List(c echo.Context) error {
	out, err := h.svc.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MemberHandler) Get(c echo.Context) error {
	m, err := h.svc.Get(c.Request().Context(), c.Param("code"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, m)
}
