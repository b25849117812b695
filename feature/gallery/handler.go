package gallery

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"picklr/core/logger"
	"picklr/core/middleware/identity"
	"picklr/core/provider"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the gallery.
type Handler struct {
	service *Service
	timeout time.Duration
}

// NewHandler creates a new HTTP handler. timeout bounds each request's
// provider and database work; zero disables it.
func NewHandler(service *Service, timeout time.Duration) *Handler {
	return &Handler{service: service, timeout: timeout}
}

// RegisterRoutes registers the gallery routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/sync", h.HandleSync)
	app.Get("/sync/progress", h.HandleSyncProgress)

	files := app.Group("/files")
	files.Get("/", h.HandleListFiles)
	files.Get("/:id", h.HandleGetFile)
	files.Post("/:id/metadata", h.HandleSaveMeta)
	files.Post("/:id/thumbnail", h.HandleRefetchThumbnail)
	files.Get("/:id/thumbnail", h.HandleGetThumbnail)

	app.Get("/tags", h.HandleTags)
	app.Get("/search", h.HandleSearch)
}

// SaveMetaRequest is the body of a metadata update.
type SaveMetaRequest struct {
	Description string `json:"description" form:"description"`
	Tags        string `json:"tags" form:"tags"`
}

func (h *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), h.timeout)
}

// HandleSync mirrors the user's watched folder into the catalog.
// @Summary Sync Gallery
// @Description Fetch the next provider delta and apply every queued change.
// @Tags gallery
// @Produce json
// @Success 200 {object} gallery.SyncReport "Sync Report"
// @Failure 403 {object} map[string]string "Account Not Linked"
// @Failure 502 {object} map[string]string "Provider Error"
// @Failure 504 {object} map[string]string "Provider Timeout"
// @Router /sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.service.Sync(ctx, identity.UserID(c))
	if err != nil {
		return fail(c, l, "Sync failed", err)
	}
	return c.JSON(report)
}

// HandleSyncProgress reports how many tasks are still queued.
// @Summary Sync Progress
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string]int64 "Pending Tasks"
// @Router /sync/progress [get]
func (h *Handler) HandleSyncProgress(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	pending, err := h.service.Progress(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, l, "Progress lookup failed", err)
	}
	return c.JSON(fiber.Map{"pending": pending})
}

// HandleListFiles returns one page of files, newest first.
// @Summary List Files
// @Tags gallery
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} gallery.Page "Files"
// @Router /files [get]
func (h *Handler) HandleListFiles(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	page, err := h.service.ListFiles(c.UserContext(), identity.UserID(c), c.QueryInt("page", 1))
	if err != nil {
		return fail(c, l, "Listing failed", err)
	}
	return c.JSON(page)
}

// HandleGetFile returns one file with its share URL.
// @Summary Get File
// @Tags gallery
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} gallery.FileDetail "File"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /files/{id} [get]
func (h *Handler) HandleGetFile(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	id, err := fileID(c)
	if err != nil {
		return err
	}
	file, err := h.service.GetFile(c.UserContext(), identity.UserID(c), id)
	if err != nil {
		return fail(c, l, "File lookup failed", err)
	}
	return c.JSON(file)
}

// HandleSaveMeta replaces a file's description and tags.
// @Summary Save File Metadata
// @Tags gallery
// @Accept json
// @Produce json
// @Param id path int true "File ID"
// @Param body body gallery.SaveMetaRequest true "Description and pipe separated tags"
// @Success 200 {object} map[string][]string "Newly created tags"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /files/{id}/metadata [post]
func (h *Handler) HandleSaveMeta(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	id, err := fileID(c)
	if err != nil {
		return err
	}
	var req SaveMetaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	created, err := h.service.SaveMeta(c.UserContext(), identity.UserID(c), id, req.Description, req.Tags)
	if err != nil {
		return fail(c, l, "Saving metadata failed", err)
	}
	return c.JSON(fiber.Map{"new_tags": created})
}

// HandleRefetchThumbnail downloads a file's thumbnail again.
// @Summary Refetch Thumbnail
// @Tags gallery
// @Produce json
// @Param id path int true "File ID"
// @Success 200 {object} map[string]int "1 when refreshed, 0 when the provider had none"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /files/{id}/thumbnail [post]
func (h *Handler) HandleRefetchThumbnail(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	id, err := fileID(c)
	if err != nil {
		return err
	}
	ctx, cancel := h.requestContext(c)
	defer cancel()

	ok, err := h.service.RefetchThumbnail(ctx, identity.UserID(c), id)
	if err != nil {
		return fail(c, l, "Thumbnail refetch failed", err)
	}
	result := 0
	if ok {
		result = 1
	}
	return c.JSON(fiber.Map{"result": result})
}

// HandleGetThumbnail serves a stored thumbnail.
// @Summary Get Thumbnail
// @Tags gallery
// @Produce jpeg
// @Param id path int true "File ID"
// @Success 200 {file} binary "JPEG thumbnail"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /files/{id}/thumbnail [get]
func (h *Handler) HandleGetThumbnail(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	id, err := fileID(c)
	if err != nil {
		return err
	}
	rc, err := h.service.OpenThumbnail(c.UserContext(), identity.UserID(c), id)
	if err != nil {
		return fail(c, l, "Thumbnail lookup failed", err)
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.SendStream(rc)
}

// HandleTags returns the user's tags.
// @Summary List Tags
// @Tags gallery
// @Produce json
// @Success 200 {object} map[string][]string "Tags"
// @Router /tags [get]
func (h *Handler) HandleTags(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	tags, err := h.service.Tags(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, l, "Tag lookup failed", err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// HandleSearch returns files carrying every requested tag.
// @Summary Search By Tags
// @Tags gallery
// @Produce json
// @Param q query string true "Tags separated by pipes or commas"
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} gallery.Page "Files"
// @Router /search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	page, err := h.service.Search(c.UserContext(), identity.UserID(c), c.Query("q"), c.QueryInt("page", 1))
	if err != nil {
		return fail(c, l, "Search failed", err)
	}
	return c.JSON(page)
}

func fileID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid file id")
	}
	return uint(id), nil
}

// fail logs err and answers with the matching status.
func fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	var ne net.Error
	switch {
	case errors.Is(err, ErrAccessDenied):
		return fiber.StatusForbidden
	case errors.Is(err, ErrFileNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne) && ne.Timeout():
		return fiber.StatusGatewayTimeout
	}
	if _, ok := provider.AsError(err); ok {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
