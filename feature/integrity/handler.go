package integrity

import (
	"picklr/core/logger"
	"picklr/core/middleware/identity"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/thumbnails", h.HandleThumbnailCheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Description Checks the catalog schema and the caller's thumbnails.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]any)

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if missing, err := h.service.CheckThumbnails(c.UserContext(), identity.UserID(c)); err != nil {
		report["thumbnails"] = map[string]any{"status": "error", "error": err.Error()}
	} else {
		report["thumbnails"] = map[string]any{"status": "ok", "missing": missing}
	}

	return c.JSON(report)
}

// HandleSchemaCheck reports schema drift.
// @Summary Check Catalog Schema
// @Description Checks that every catalog table and column exists.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(report.Issues) > 0 {
		l.Warn("Schema drift detected", zap.Strings("issues", report.Issues))
	}
	return c.JSON(report)
}

// HandleThumbnailCheck finds and optionally repairs missing thumbnails.
// @Summary Check Thumbnails
// @Description Lists the caller's files without a stored thumbnail. With fix=true a placeholder is written for each.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Write placeholders for missing thumbnails"
// @Success 200 {object} map[string]interface{} "Thumbnail Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/thumbnails [get]
func (h *Handler) HandleThumbnailCheck(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckThumbnails(c.UserContext(), identity.UserID(c))
	if err != nil {
		l.Error("Thumbnail check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing thumbnails detected", zap.Int("count", len(missing)))

		if fix {
			if err := h.service.FixThumbnails(c.UserContext(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix thumbnails",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}
