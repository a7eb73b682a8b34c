package search

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
	app.Post("/api/v1/search", h.search)
	app.Get("/api/v1/search-results", h.results)
}

type searchRequest struct {
	Query string `json:"query"`
}

func (h *Handler) search(c *fiber.Ctx) error {
	payload := new(searchRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "query is required"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	rs, err := h.service.Search(c.UserContext(), strconv.Itoa(userID), payload.Query)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(rs)
}

// results re-polls once without issuing a new search; the page calls
// this when the user refreshes while waiting.
func (h *Handler) results(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	txn, err := h.service.builder.TransactionID(c.UserContext(), strconv.Itoa(userID))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "no active search"})
	}

	rs, err := h.service.FetchResultsWithRetry(c.UserContext(), txn, 1, 0)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(rs)
}
