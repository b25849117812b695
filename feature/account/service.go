package account

import (
	"context"
	"errors"
	"fmt"

	"picklr/core/provider"
	"picklr/feature/gallery"

	"go.uber.org/zap"
)

// OAuthFlow is the provider authorization code flow.
type OAuthFlow interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*provider.Grant, error)
}

// Service links and unlinks provider accounts.
type Service struct {
	catalog *gallery.Catalog
	oauth   OAuthFlow
	clients gallery.ClientFactory
	root    string
	logger  *zap.Logger
}

// NewService creates a new account service. root is the watched folder
// created in every newly linked account.
func NewService(catalog *gallery.Catalog, oauth OAuthFlow, clients gallery.ClientFactory, root string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, oauth: oauth, clients: clients, root: root, logger: logger}
}

// AuthorizeURL returns the provider page that starts linking.
func (s *Service) AuthorizeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// Link exchanges code for a token, stores it for userID and makes sure the
// watched folder exists. A failure to create the folder is logged only.
func (s *Service) Link(ctx context.Context, userID, code string) (*provider.Grant, error) {
	grant, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.LinkUser(ctx, userID, grant.AccountID, grant.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}

	if err := s.clients.ForToken(grant.AccessToken).CreateFolder(ctx, s.root); err != nil && !provider.IsConflict(err) {
		s.logger.Warn("Failed to create watched folder",
			zap.String("user_id", userID), zap.String("root", s.root), zap.Error(err))
	}
	return grant, nil
}

// Status describes the provider account linked to a user.
type Status struct {
	UserID    string `json:"user_id"`
	AccountID string `json:"account_id,omitempty"`
	Linked    bool   `json:"linked"`
}

// Status reports which provider account, if any, userID has linked.
func (s *Service) Status(ctx context.Context, userID string) (*Status, error) {
	st := &Status{UserID: userID}
	user, err := s.catalog.GetUser(ctx, userID)
	if errors.Is(err, gallery.ErrAccessDenied) {
		return st, nil
	}
	if err != nil {
		return nil, err
	}
	if user.AccountID != nil {
		st.AccountID = *user.AccountID
	}
	st.Linked = user.AccessToken != nil && *user.AccessToken != ""
	return st, nil
}

// Unlink forgets the user's access token. Catalog rows are kept.
func (s *Service) Unlink(ctx context.Context, userID string) error {
	return s.catalog.UnlinkUser(ctx, userID)
}
