package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/repository"
)

// AdminHandler exposes maintenance endpoints.  The router only mounts it
// when APP_ENV is "dev"; wiping bookings has no place on a production
// surface.
type AdminHandler struct {
	Admin *repository.AdminRepo
}

func NewAdminHandler(a *repository.AdminRepo) *AdminHandler {
	return &AdminHandler{Admin: a}
}

// ClearData deletes all bookings and ratings so a dev database can be
// reseeded from a clean slate.  Users and their point balances survive.
func (h *AdminHandler) ClearData(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Admin.ClearData(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear data failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "data cleared",
		"cleared": echo.Map{
			"bookings": true,
			"ratings":  true,
		},
	})
}
