package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/user"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart", h.addToCart)
	app.Post("/api/v1/cart/clear-and-add", h.clearAndAdd)
	app.Delete("/api/v1/cart/:id", h.removeLine)
	app.Delete("/api/v1/cart", h.clearCart)
}

func sid(c *fiber.Ctx) (string, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(userID), nil
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	lines, err := h.service.Lines(c.UserContext(), s)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(lines)
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(Line)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "item id is required"})
	}

	lines, conflict, err := h.service.AddLine(c.UserContext(), s, *payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if conflict != nil {
		// 409 carries the resolution hint; the cart is unchanged
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"conflict":   conflict,
			"resolution": "clear-and-add",
			"cart":       lines,
		})
	}
	return c.JSON(lines)
}

func (h *Handler) clearAndAdd(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(Line)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "item id is required"})
	}

	lines, err := h.service.ClearAndAdd(c.UserContext(), s, *payload)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(lines)
}

func (h *Handler) removeLine(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	lines, err := h.service.RemoveLine(c.UserContext(), s, c.Params("id"))
	if err == ErrLineNotFound {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "line not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(lines)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	s, err := sid(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if err := h.service.Clear(c.UserContext(), s); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
