package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"picklr/core/provider"
	"picklr/core/reconcile"
	"picklr/core/thumbs"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClientFactory returns a provider API authorized with a user's token.
type ClientFactory interface {
	ForToken(token string) provider.API
}

// SyncReport is the outcome of a sync request.
type SyncReport struct {
	Added      int   `json:"added"`
	Deleted    int   `json:"deleted"`
	TotalFiles int64 `json:"total_files"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
	Reset      bool  `json:"reset"`
}

// FileDetail is a file with its public share URL.
type FileDetail struct {
	File
	ShareURL string   `json:"share_url"`
	TagNames []string `json:"tag_list"`
}

// Deps groups the collaborators of a Service.
type Deps struct {
	DB        *gorm.DB
	Clients   ClientFactory
	Thumbs    thumbs.Store
	Provider  provider.Config
	ThumbCfg  thumbs.Config
	Sync      reconcile.Config
	Gallery   Config
	Logger    *zap.Logger
	SyncGuard *reconcile.Guard
}

// Service handles gallery operations.
type Service struct {
	db       *gorm.DB
	catalog  *Catalog
	clients  ClientFactory
	thumbs   thumbs.Store
	provider provider.Config
	thumbCfg thumbs.Config
	sync     reconcile.Config
	cfg      Config
	guard    *reconcile.Guard
	logger   *zap.Logger
}

// NewService creates a new gallery service.
func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	guard := d.SyncGuard
	if guard == nil {
		guard = reconcile.NewGuard()
	}
	return &Service{
		db:       d.DB,
		catalog:  NewCatalog(d.DB, d.Gallery.ScopeUpsertByUser),
		clients:  d.Clients,
		thumbs:   d.Thumbs,
		provider: d.Provider,
		thumbCfg: d.ThumbCfg,
		sync:     d.Sync,
		cfg:      d.Gallery,
		guard:    guard,
		logger:   logger,
	}
}

// Catalog returns the service's catalog.
func (s *Service) Catalog() *Catalog { return s.catalog }

// Sync pulls the next delta for userID and applies all queued changes.
// Concurrent calls for the same user share one run.
func (s *Service) Sync(ctx context.Context, userID string) (*SyncReport, error) {
	token, err := s.catalog.AccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	adapter := NewSyncAdapter(s.catalog, s.clients.ForToken(token), s.thumbs, s.provider.Root, s.thumbCfg, s.logger)
	spec := s.sync.Spec(adapter, s.logger)

	res, shared, err := s.guard.Run(ctx, spec, s.db, userID)
	if shared {
		s.logger.Debug("Joined in-flight sync", zap.String("user_id", userID))
	}
	if err != nil {
		if provider.IsKind(err, provider.KindAuth) && !errors.Is(err, ErrAccessDenied) {
			err = fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		return nil, err
	}

	total, pages, err := s.catalog.Count(ctx, userID, s.cfg.pageSize())
	if err != nil {
		return nil, err
	}
	return &SyncReport{
		Added:      res.Added,
		Deleted:    res.Deleted,
		TotalFiles: total,
		TotalPages: pages,
		HasMore:    res.HasMore,
		Reset:      res.Reset,
	}, nil
}

// Progress returns the number of tasks still queued for userID.
func (s *Service) Progress(ctx context.Context, userID string) (int64, error) {
	return reconcile.Pending(ctx, s.db, userID)
}

// ListFiles returns one page of the user's files.
func (s *Service) ListFiles(ctx context.Context, userID string, page int) (*Page, error) {
	return s.catalog.ListFiles(ctx, userID, page, s.cfg.pageSize())
}

// Search returns the user's files carrying every tag in query. Tags are
// separated by pipes or commas; extra tags are ignored.
func (s *Service) Search(ctx context.Context, userID, query string, page int) (*Page, error) {
	tags := ParseQuery(query)
	if len(tags) > s.cfg.maxSearchTags() {
		tags = tags[:s.cfg.maxSearchTags()]
	}
	if len(tags) == 0 {
		return s.ListFiles(ctx, userID, page)
	}
	return s.catalog.Search(ctx, userID, tags, page, s.cfg.pageSize())
}

// GetFile returns one of the user's files with its share URL.
func (s *Service) GetFile(ctx context.Context, userID string, id uint) (*FileDetail, error) {
	file, err := s.catalog.GetFile(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return &FileDetail{
		File:     *file,
		ShareURL: provider.ShareURL(s.provider.ShareHost, file.ShareKey, file.Path),
		TagNames: file.TagList(),
	}, nil
}

// Tags returns every tag the user has created.
func (s *Service) Tags(ctx context.Context, userID string) ([]string, error) {
	return s.catalog.Tags(ctx, userID)
}

// SaveMeta replaces a file's description and tags. tags is pipe separated.
// It returns the tags that were new for the user.
func (s *Service) SaveMeta(ctx context.Context, userID string, id uint, description, tags string) ([]string, error) {
	return s.catalog.SaveMeta(ctx, userID, id, description, splitTags(tags, "|"))
}

// RefetchThumbnail downloads the file's thumbnail again. It reports false
// when the provider could not supply one and the placeholder was kept.
func (s *Service) RefetchThumbnail(ctx context.Context, userID string, id uint) (bool, error) {
	file, err := s.catalog.GetFile(ctx, userID, id)
	if err != nil {
		return false, err
	}
	token, err := s.catalog.AccessToken(ctx, userID)
	if err != nil {
		return false, err
	}

	remote := path.Join(strings.ToLower(s.provider.Root), file.Path)
	data, err := s.clients.ForToken(token).Thumbnail(ctx, remote, s.thumbCfg.Size, s.thumbCfg.Format)
	if err != nil {
		if provider.IsKind(err, provider.KindAuth) {
			return false, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		if _, ok := provider.AsError(err); !ok {
			return false, err
		}
		s.logger.Warn("Thumbnail refetch failed", zap.Uint("file_id", id), zap.Error(err))
		return false, nil
	}

	if err := s.thumbs.Save(ctx, id, data); err != nil {
		return false, err
	}
	return true, nil
}

// OpenThumbnail returns the stored thumbnail of one of the user's files.
func (s *Service) OpenThumbnail(ctx context.Context, userID string, id uint) (io.ReadCloser, error) {
	if _, err := s.catalog.GetFile(ctx, userID, id); err != nil {
		return nil, err
	}
	rc, err := s.thumbs.Open(ctx, id)
	if errors.Is(err, thumbs.ErrNotFound) {
		return nil, ErrFileNotFound
	}
	return rc, err
}

// ParseQuery splits a search query into distinct tags on pipes and commas.
// Spaces belong to the tag, as they do when tags are saved.
func ParseQuery(query string) []string {
	return splitTags(strings.ReplaceAll(query, ",", "|"), "|")
}
