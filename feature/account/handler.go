package account

import (
	"context"
	"errors"
	"net"

	"picklr/core/logger"
	"picklr/core/middleware/identity"
	"picklr/core/provider"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	stateKey = "oauth_state"
	userKey  = "oauth_user"
)

// Handler handles HTTP requests for account linking.
type Handler struct {
	service  *Service
	sessions *session.Store
}

// NewHandler creates a new HTTP handler. Pending authorizations are kept in
// sessions until they expire.
func NewHandler(service *Service, sessions *session.Store) *Handler {
	return &Handler{service: service, sessions: sessions}
}

// RegisterRoutes registers the account routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/account")
	group.Get("/", h.HandleStatus)
	group.Get("/authorize", h.HandleAuthorize)
	group.Get("/callback", h.HandleCallback)
	group.Post("/unlink", h.HandleUnlink)
}

// HandleStatus reports the caller's linked provider account.
// @Summary Account Status
// @Tags account
// @Produce json
// @Success 200 {object} account.Status "Link status"
// @Router /account [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	st, err := h.service.Status(c.UserContext(), identity.UserID(c))
	if err != nil {
		return fail(c, l, err)
	}
	return c.JSON(st)
}

// HandleAuthorize starts linking the caller's provider account.
// @Summary Start Account Linking
// @Description Redirect to the provider's authorization page.
// @Tags account
// @Success 303 "Redirect to the provider"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /account/authorize [get]
func (h *Handler) HandleAuthorize(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	sess, err := h.sessions.Get(c)
	if err != nil {
		l.Error("Session unavailable", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	state := uuid.NewString()
	sess.Set(stateKey, state)
	sess.Set(userKey, identity.UserID(c))
	if err := sess.Save(); err != nil {
		l.Error("Failed to save session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Redirect(h.service.AuthorizeURL(state), fiber.StatusSeeOther)
}

// HandleCallback finishes linking after the provider redirects back.
// @Summary Finish Account Linking
// @Tags account
// @Produce json
// @Param code query string false "Authorization code"
// @Param state query string true "State issued by /account/authorize"
// @Success 200 {object} map[string]string "Linked user"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /account/callback [get]
func (h *Handler) HandleCallback(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	sess, err := h.sessions.Get(c)
	if err != nil {
		l.Error("Session unavailable", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	state := c.Query("state")
	expected, _ := sess.Get(stateKey).(string)
	userID, _ := sess.Get(userKey).(string)

	switch {
	case state == "":
		return fail(c, l, &provider.Error{Kind: provider.KindBadState, Summary: "missing state"})
	case expected == "" || state != expected || userID == "":
		return fail(c, l, &provider.Error{Kind: provider.KindCSRF, Summary: "state does not match"})
	}
	if err := sess.Destroy(); err != nil {
		l.Warn("Failed to clear session", zap.Error(err))
	}

	if reason := c.Query("error"); reason != "" {
		return fail(c, l, &provider.Error{Kind: provider.KindNotApproved, Summary: reason})
	}

	grant, err := h.service.Link(c.UserContext(), userID, c.Query("code"))
	if err != nil {
		return fail(c, l, err)
	}
	l.Info("Account linked", zap.String("user_id", userID), zap.String("account_id", grant.AccountID))
	return c.JSON(fiber.Map{"user_id": userID, "account_id": grant.AccountID})
}

// HandleUnlink forgets the caller's access token.
// @Summary Unlink Account
// @Tags account
// @Success 204 "Unlinked"
// @Router /account/unlink [post]
func (h *Handler) HandleUnlink(c *fiber.Ctx) error {
	l := logger.WithUser(h.service.logger, c)
	if err := h.service.Unlink(c.UserContext(), identity.UserID(c)); err != nil {
		return fail(c, l, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	status := StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error("Account request failed", zap.Error(err))
	} else {
		l.Warn("Account request rejected", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// StatusFor maps a linking error onto an HTTP status.
func StatusFor(err error) int {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fiber.StatusGatewayTimeout
	}
	pe, ok := provider.AsError(err)
	if !ok {
		return fiber.StatusInternalServerError
	}
	switch pe.Kind {
	case provider.KindBadRequest, provider.KindBadState:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusForbidden
	}
}
