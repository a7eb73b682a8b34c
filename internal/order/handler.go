package order

import (
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
	app.Get("/api/v1/order", h.getOrder)
	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/cart-confirmation", h.getCartConfirmation)
	app.Post("/api/v1/order/status", h.status)
	app.Post("/api/v1/order/track", h.track)
	app.Post("/api/v1/order/cancel", h.cancel)
}

func sid(c *fiber.Ctx) (string, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(userID), nil
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	txn, err := h.service.builder.TransactionID(c.UserContext(), s)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no active transaction"})
	}

	conf, err := h.service.FetchOrder(c.UserContext(), s, txn)
	if err != nil {
		// no network, no cache: explicit empty state
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order unavailable"})
	}
	return c.JSON(conf)
}

func (h *Handler) getCartConfirmation(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	txn, err := h.service.builder.TransactionID(c.UserContext(), s)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no active transaction"})
	}

	conf, err := h.service.FetchCartConfirmation(c.UserContext(), s, txn)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "cart confirmation unavailable"})
	}
	return c.JSON(conf)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	if _, err := sid(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	list, layer, err := h.service.FetchOrdersList(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"orders": list, "source": layer})
}

func (h *Handler) status(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	res, err := h.service.Status(c.UserContext(), s)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(res)
}

func (h *Handler) track(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	res, err := h.service.Track(c.UserContext(), s)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(res)
}

type cancelRequest struct {
	Confirmed bool   `json:"confirmed"`
	ReasonID  string `json:"reason_id"`
}

func (h *Handler) cancel(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(cancelRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	conf, err := h.service.Cancel(c.UserContext(), s, payload.ReasonID, payload.Confirmed)
	if err == ErrNotConfirmed {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cancellation requires confirmation"})
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(conf)
}
