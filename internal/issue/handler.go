package issue

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
	app.Get("/api/v1/issues/types", h.types)
	app.Post("/api/v1/issues", h.raise)
	app.Post("/api/v1/issues/upload-additional-info", h.uploadEvidence)
}

func (h *Handler) types(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"types": Types()})
}

func (h *Handler) raise(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sid := strconv.Itoa(userID)

	payload := new(Request)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	res, err := h.service.Raise(c.UserContext(), sid, *payload)
	switch {
	case errors.Is(err, ErrUnknownType):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown issue type", "types": Types()})
	case errors.Is(err, ErrNoOrder), errors.Is(err, ondc.ErrNoTransaction):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "no order to raise an issue against"})
	case err != nil:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(res)
}

func (h *Handler) uploadEvidence(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	sid := strconv.Itoa(userID)

	issueID := c.FormValue("issue_id")
	if issueID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "issue_id is required"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	defer f.Close()

	res, err := h.service.UploadEvidence(c.UserContext(), sid, issueID, fh.Filename, f)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(res)
}
