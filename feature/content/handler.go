package content

import (
	"errors"
	"strings"

	"gyrinx-content/core/importer"
	"gyrinx-content/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for imported content.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the content routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/runs", h.HandleListRuns)
	app.Get("/runs/:id", h.HandleGetRun)
	app.Get("/content/:type", h.HandleListContent)
	app.Post("/imports/preview", h.HandlePreview)
}

const (
	defaultRunLimit = 50
	maxRunLimit     = 500
)

// HandleListRuns returns recent import runs. ?limit= caps the result (default 50,
// clamped to 1..500).
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	limit := min(max(c.QueryInt("limit", defaultRunLimit), 1), maxRunLimit)
	runs, err := h.service.Runs(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"runs": runs})
}

// HandleGetRun returns one import run.
func (h *Handler) HandleGetRun(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid run id"})
	}
	run, err := h.service.Run(c.UserContext(), id)
	if errors.Is(err, importer.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "run not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(run)
}

// HandleListContent returns every stored entity of one type.
func (h *Handler) HandleListContent(c *fiber.Ctx) error {
	entityType := c.Params("type")
	if _, err := ParseTypes([]string{entityType}); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	items, err := h.service.List(c.UserContext(), entityType)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list content", zap.String("type", entityType), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"type": entityType, "items": items})
}

// HandlePreview runs a dry-run import of ?ruleset= (or the configured ruleset) and
// returns its report. A structural mismatch yields 422 with the partial report.
func (h *Handler) HandlePreview(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ruleset := strings.TrimSpace(c.Query("ruleset"))

	report, err := h.service.Preview(c.UserContext(), ruleset)
	if err == nil {
		return c.JSON(report)
	}

	l.Warn("Preview failed", zap.String("ruleset", ruleset), zap.Error(err))
	if report == nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, importer.ErrMissingDirectory) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error(), "report": report})
}
