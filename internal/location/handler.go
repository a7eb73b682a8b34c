package location

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/location/reverse", h.reverse)
	app.Get("/api/v1/location/pincode/:code", h.pincode)
}

func (h *Handler) reverse(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sid := strconv.Itoa(userID)

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "lat and lng are required"})
	}

	place, err := h.service.ReverseGeocode(c.UserContext(), sid, lat, lng)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(place)
}

func (h *Handler) pincode(c *fiber.Ctx) error {
	if _, err := user.GetUserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	place, err := h.service.SearchByPostalCode(c.UserContext(), c.Params("code"))
	switch {
	case errors.Is(err, ErrBadPincode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, ErrNoMatch):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no location for that pincode"})
	case err != nil:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(place)
}
