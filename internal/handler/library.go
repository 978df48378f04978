package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/libraryapi"
)

// LibraryHandler proxies the optional university library API.  Responses
// are passed through as-is; the upstream owns their shape.
type LibraryHandler struct {
	Client *libraryapi.Client
}

func NewLibraryHandler(client *libraryapi.Client) *LibraryHandler {
	return &LibraryHandler{Client: client}
}

// bearerToken extracts the student's raw token so it can be forwarded
// upstream.  The JWT middleware already validated it.
func bearerToken(c echo.Context) string {
	return strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
}

func (h *LibraryHandler) Seats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Client.Seats(ctx, c.QueryParam("room_id"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "library api request failed"})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LibraryHandler) SeatAvailability(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Client.SeatAvailability(ctx, c.Param("id"), c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "library api request failed"})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LibraryHandler) Rooms(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Client.Rooms(ctx)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "library api request failed"})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LibraryHandler) CreateBooking(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Client.CreateBooking(ctx, bearerToken(c), c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "library api request failed"})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LibraryHandler) CancelBooking(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Client.CancelBooking(ctx, bearerToken(c), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "library api request failed"})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LibraryHandler) BookingHistory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Client.BookingHistory(ctx, bearerToken(c))
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "library api request failed"})
	}
	return c.JSON(http.StatusOK, out)
}
