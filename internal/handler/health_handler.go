package handler

import (
	"net/http"

	"github.com/Eursukkul/hotel-pms/internal/dto"
	"github.com/labstack/echo/v4"
)

func Health(service string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Service: service})
	}
}
