package checkout

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout/select", h.selectItem)
	app.Post("/api/v1/checkout/init", h.init)
	app.Post("/api/v1/checkout/confirm", h.confirm)
}

func sid(c *fiber.Ctx) (string, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(userID), nil
}

type selectRequest struct {
	ItemID     string `json:"item_id"`
	ProviderID string `json:"provider_id"`
	Quantity   int    `json:"quantity,omitempty"`
}

func (h *Handler) selectItem(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(selectRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ItemID == "" || payload.ProviderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "item_id and provider_id are required"})
	}

	res, err := h.service.Select(c.UserContext(), s, payload.ItemID, payload.ProviderID, payload.Quantity)
	if errors.Is(err, ondc.ErrNoTransaction) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "no active transaction; search first"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(res)
}

func (h *Handler) init(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(DeliveryInfo)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	err = h.service.Init(c.UserContext(), s, *payload)
	switch {
	case errors.Is(err, ErrOutOfOrder):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "select items before init"})
	case errors.Is(err, ErrMissingFields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case err != nil:
		// no automatic retry: the client keeps its form open and retries
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "init accepted"})
}

func (h *Handler) confirm(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(PaymentDetails)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Mode != "cod" && payload.Mode != "prepaid" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "mode must be cod or prepaid"})
	}

	res, err := h.service.Confirm(c.UserContext(), s, *payload)
	switch {
	case errors.Is(err, ErrOutOfOrder):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "init before confirm"})
	case err != nil:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(res)
}
