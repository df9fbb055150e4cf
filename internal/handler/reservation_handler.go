package handler

import (
	"net/http"

	"github.com/Eursukkul/hotel-pms/internal/dto"
	"github.com/Eursukkul/hotel-pms/internal/models"
	"github.com/Eursukkul/hotel-pms/internal/repository"
	"github.com/Eursukkul/hotel-pms/internal/service"
	"github.com/labstack/echo/v4"
)

type ReservationHandler struct {
	svc service.ReservationService
}

func NewReservationHandler(svc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

func (h *ReservationHandler) RegisterRoutes(g *echo.Group) {
	r := g.Group("/reservations")
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.PATCH("/:id/status", h.UpdateStatus)
	r.DELETE("/:id", h.Delete)
	r.GET("/:id/items", h.ListItems)
	r.POST("/:id/items", h.AddItem)

	g.GET("/rooms/:id/availability", h.CheckAvailability)
}

func (h *ReservationHandler) List(c echo.Context) error {
	var filter repository.ReservationFilter
	if s := c.QueryParam("status"); s != "" {
		st := models.ReservationStatus(s)
		if !st.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		filter.Status = &st
	}
	var err error
	if filter.RoomID, err = queryUint(c, "room_id"); err != nil {
		return err
	}
	if filter.GuestID, err = queryUint(c, "guest_id"); err != nil {
		return err
	}

	out, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	r, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	upd, err := req.ToUpdate()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	r, err := h.svc.Update(c.Request().Context(), id, upd)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	r, err := h.svc.UpdateStatus(c.Request().Context(), id, models.ReservationStatus(req.Status))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReservationHandler) ListItems(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListItems(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ReservationHandler) AddItem(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var item models.InvoiceItem
	if err := c.Bind(&item); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.AddItem(c.Request().Context(), id, &item); err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// CheckAvailability answers whether the room is free for
// [check_in, check_out). exclude skips one reservation, for edits.
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	roomID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	checkIn, err := models.ParseDate(c.QueryParam("check_in"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "check_in: expected YYYY-MM-DD")
	}
	checkOut, err := models.ParseDate(c.QueryParam("check_out"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "check_out: expected YYYY-MM-DD")
	}
	exclude, err := queryUint(c, "exclude")
	if err != nil {
		return err
	}

	free, err := h.svc.CheckAvailability(c.Request().Context(), roomID, checkIn.Time(), checkOut.Time(), exclude)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		RoomID:    roomID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Available: free,
	})
}
