package gallery_test

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"picklr/core/provider"
	"picklr/core/provider/mocks"
	"picklr/core/reconcile"
	"picklr/core/thumbs"
	"picklr/feature/gallery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var placeholder = []byte("placeholder")

type fixture struct {
	db      *gorm.DB
	api     *mocks.API
	factory *mocks.Factory
	store   *thumbs.LocalStore
	service *gallery.Service
}

// failingSaves rejects real thumbnails but accepts placeholders.
type failingSaves struct {
	*thumbs.LocalStore
}

func (s failingSaves) Save(ctx context.Context, id uint, data []byte) error {
	return errors.New("disk full")
}

func (s failingSaves) SavePlaceholder(ctx context.Context, id uint) error {
	return s.LocalStore.Save(ctx, id, placeholder)
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, nil)
}

// newFixtureWith builds a fixture whose service writes thumbnails through
// wrap(store) when wrap is set.
func newFixtureWith(t *testing.T, wrap func(*thumbs.LocalStore) thumbs.Store) *fixture {
	t.Helper()
	db := setupDB(t)
	store, err := thumbs.NewLocalStore(t.TempDir(), placeholder)
	require.NoError(t, err)
	var thumbStore thumbs.Store = store
	if wrap != nil {
		thumbStore = wrap(store)
	}

	api := new(mocks.API)
	factory := &mocks.Factory{API: api}
	svc := gallery.NewService(gallery.Deps{
		DB:       db,
		Clients:  factory,
		Thumbs:   thumbStore,
		Provider: provider.Config{Root: "/Images", ShareHost: "https://www.dropbox.com"},
		ThumbCfg: thumbs.Config{Size: "w128h128", Format: "jpeg"},
		Sync:     reconcile.Config{BatchSize: 10, Workers: 2},
		Gallery:  gallery.Config{PageSize: 25, MaxSearchTags: 2},
	})
	return &fixture{db: db, api: api, factory: factory, store: store, service: svc}
}

func (f *fixture) link(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, f.service.Catalog().LinkUser(context.Background(), userID, "dbid:"+userID, "tok-"+userID))
}

func file(path string) provider.Entry {
	return provider.Entry{Path: path, Metadata: &provider.Metadata{Tag: "file", PathLower: path}}
}

func deleted(path string) provider.Entry {
	return provider.Entry{Path: path}
}

func TestService_Sync(t *testing.T) {
	f := newFixture(t)
	f.link(t, "u1")
	ctx := context.Background()

	f.api.On("Delta", mock.Anything, "/Images", "").Return(&provider.DeltaPage{
		Entries: []provider.Entry{
			{Path: "/images", Metadata: &provider.Metadata{Tag: "folder"}},
			file("/images/a.jpg"),
			{Path: "/images/sub", Metadata: &provider.Metadata{Tag: "folder"}},
			file("/images/sub/b.jpg"),
			deleted("/images/c.jpg"),
		},
		Cursor: "c1",
	}, nil).Once()
	f.api.On("CreateShareLink", mock.Anything, "/images/a.jpg").Return("https://www.dropbox.com/s/k1/a.jpg?dl=0", nil)
	f.api.On("CreateShareLink", mock.Anything, "/images/sub/b.jpg").Return("https://www.dropbox.com/s/k2/b.jpg?dl=0", nil)
	f.api.On("Thumbnail", mock.Anything, "/images/a.jpg", "w128h128", "jpeg").Return([]byte("thumb-a"), nil)
	f.api.On("Thumbnail", mock.Anything, "/images/sub/b.jpg", "w128h128", "jpeg").
		Return(nil, &provider.Error{Kind: provider.KindProvider, Status: 409, Summary: "unsupported_image"})

	report, err := f.service.Sync(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 0, report.Deleted)
	assert.Equal(t, int64(2), report.TotalFiles)
	assert.Equal(t, 1, report.TotalPages)
	assert.Equal(t, []string{"tok-u1"}, f.factory.Tokens)

	page, err := f.service.ListFiles(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, page.Files, 2)
	byPath := map[string]gallery.File{}
	for _, file := range page.Files {
		byPath[file.Path] = file
	}
	assert.Equal(t, "k1", byPath["a.jpg"].ShareKey)
	assert.Equal(t, "k2", byPath["b.jpg"].ShareKey)

	data, err := os.ReadFile(f.store.Path(byPath["a.jpg"].ID))
	require.NoError(t, err)
	assert.Equal(t, []byte("thumb-a"), data)
	data, err = os.ReadFile(f.store.Path(byPath["b.jpg"].ID))
	require.NoError(t, err)
	assert.Equal(t, placeholder, data)

	cursor, err := f.service.Catalog().Cursor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "c1", cursor)

	t.Run("Delete On Next Delta", func(t *testing.T) {
		f.api.On("Delta", mock.Anything, "/Images", "c1").Return(&provider.DeltaPage{
			Entries: []provider.Entry{deleted("/images/a.jpg")},
			Cursor:  "c2",
		}, nil).Once()

		report, err := f.service.Sync(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 0, report.Added)
		assert.Equal(t, 1, report.Deleted)
		assert.Equal(t, int64(1), report.TotalFiles)

		_, err = os.Stat(f.store.Path(byPath["a.jpg"].ID))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Modified File Keeps Its Row", func(t *testing.T) {
		f.api.On("Delta", mock.Anything, "/Images", "c2").Return(&provider.DeltaPage{
			Entries: []provider.Entry{file("/images/sub/b.jpg")},
			Cursor:  "c3",
		}, nil).Once()
		f.api.On("Thumbnail", mock.Anything, "/images/sub/b.jpg", "w128h128", "jpeg").Unset()
		f.api.On("Thumbnail", mock.Anything, "/images/sub/b.jpg", "w128h128", "jpeg").Return([]byte("thumb-b"), nil)

		report, err := f.service.Sync(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Added)
		assert.Equal(t, int64(1), report.TotalFiles)

		data, err := os.ReadFile(f.store.Path(byPath["b.jpg"].ID))
		require.NoError(t, err)
		assert.Equal(t, []byte("thumb-b"), data)
	})
}

func TestService_SyncNotLinked(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Sync(context.Background(), "ghost")
	assert.ErrorIs(t, err, gallery.ErrAccessDenied)
	f.api.AssertNotCalled(t, "Delta", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_SyncRevokedToken(t *testing.T) {
	f := newFixture(t)
	f.link(t, "u1")
	f.api.On("Delta", mock.Anything, "/Images", "").
		Return(nil, &provider.Error{Kind: provider.KindAuth, Status: 401, Summary: "expired_access_token"})

	_, err := f.service.Sync(context.Background(), "u1")
	assert.ErrorIs(t, err, gallery.ErrAccessDenied)
	assert.Equal(t, 403, gallery.StatusFor(err))
}

func TestService_SyncCursorReset(t *testing.T) {
	f := newFixture(t)
	f.link(t, "u1")
	require.NoError(t, f.service.Catalog().SetCursor(context.Background(), "u1", "stale"))

	f.api.On("Delta", mock.Anything, "/Images", "stale").
		Return(nil, &provider.Error{Kind: provider.KindReset, Status: 409, Summary: "reset/"})
	f.api.On("Delta", mock.Anything, "/Images", "").Return(&provider.DeltaPage{Cursor: "fresh"}, nil)

	report, err := f.service.Sync(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, report.Reset)

	cursor, err := f.service.Catalog().Cursor(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "fresh", cursor)
}

func TestService_SyncTransportFailureIsRetried(t *testing.T) {
	f := newFixture(t)
	f.link(t, "u1")
	ctx := context.Background()

	f.api.On("Delta", mock.Anything, "/Images", "").Return(&provider.DeltaPage{
		Entries: []provider.Entry{file("/images/a.jpg")},
		Cursor:  "c1",
	}, nil)
	f.api.On("CreateShareLink", mock.Anything, "/images/a.jpg").Return("https://www.dropbox.com/s/k1/a.jpg", nil)
	f.api.On("Thumbnail", mock.Anything, "/images/a.jpg", "w128h128", "jpeg").
		Return(nil, errors.New("connection reset by peer")).Once()

	_, err := f.service.Sync(ctx, "u1")
	require.Error(t, err)
	assert.Equal(t, 500, gallery.StatusFor(err))

	pending, err := f.service.Progress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	total, _, err := f.service.Catalog().Count(ctx, "u1", 25)
	require.NoError(t, err)
	assert.Zero(t, total)

	f.api.On("Delta", mock.Anything, "/Images", "c1").Return(&provider.DeltaPage{Cursor: "c1"}, nil)
	f.api.On("Thumbnail", mock.Anything, "/images/a.jpg", "w128h128", "jpeg").Return([]byte("thumb"), nil)

	report, err := f.service.Sync(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	pending, err = f.service.Progress(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestService_SyncThumbnailProviderErrorsUsePlaceholder(t *testing.T) {
	f := newFixture(t)
	f.link(t, "u1")
	ctx := context.Background()

	f.api.On("Delta", mock.Anything, "/Images", "").Return(&provider.DeltaPage{
		Entries: []provider.Entry{file("/images/a.jpg"), file("/images/b.jpg"), file("/images/c.jpg")},
		Cursor:  "c1",
	}, nil)
	for _, name := range []string{"a", "b", "c"} {
		f.api.On("CreateShareLink", mock.Anything, "/images/"+name+".jpg").
			Return("https://www.dropbox.com/s/k"+name+"/"+name+".jpg?dl=0", nil)
	}
	f.api.On("Thumbnail", mock.Anything, "/images/a.jpg", "w128h128", "jpeg").Return([]byte("thumb-a"), nil)
	f.api.On("Thumbnail", mock.Anything, "/images/b.jpg", "w128h128", "jpeg").
		Return(nil, &provider.Error{Kind: provider.KindRateLimited, Status: 429, Summary: "too_many_requests/"})
	f.api.On("Thumbnail", mock.Anything, "/images/c.jpg", "w128h128", "jpeg").
		Return(nil, &provider.Error{Kind: provider.KindAuth, Status: 401, Summary: "missing_scope/"})

	report, err := f.service.Sync(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Added)
	assert.Equal(t, int64(3), report.TotalFiles)

	pending, err := f.service.Progress(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, pending)

	for name, want := range map[string][]byte{"a.jpg": []byte("thumb-a"), "b.jpg": placeholder, "c.jpg": placeholder} {
		row, err := f.service.Catalog().FindByPath(ctx, "u1", name)
		require.NoError(t, err)
		require.NotNil(t, row, name)
		data, err := os.ReadFile(f.store.Path(row.ID))
		require.NoError(t, err)
		assert.Equal(t, want, data, name)
	}
}

func TestService_SyncThumbnailWriteFailureUsesPlaceholder(t *testing.T) {
	f := newFixtureWith(t, func(s *thumbs.LocalStore) thumbs.Store { return failingSaves{s} })
	f.link(t, "u1")
	ctx := context.Background()

	f.api.On("Delta", mock.Anything, "/Images", "").Return(&provider.DeltaPage{
		Entries: []provider.Entry{file("/images/a.jpg")},
		Cursor:  "c1",
	}, nil)
	f.api.On("CreateShareLink", mock.Anything, "/images/a.jpg").Return("https://www.dropbox.com/s/k1/a.jpg?dl=0", nil)
	f.api.On("Thumbnail", mock.Anything, "/images/a.jpg", "w128h128", "jpeg").Return([]byte("thumb-a"), nil)

	report, err := f.service.Sync(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	row, err := f.service.Catalog().FindByPath(ctx, "u1", "a.jpg")
	require.NoError(t, err)
	require.NotNil(t, row)
	data, err := os.ReadFile(f.store.Path(row.ID))
	require.NoError(t, err)
	assert.Equal(t, placeholder, data)
}

func TestService_SyncShareLinkFailure(t *testing.T) {
	f := newFixture(t)
	f.link(t, "u1")
	f.api.On("Delta", mock.Anything, "/Images", "").Return(&provider.DeltaPage{
		Entries: []provider.Entry{file("/images/a.jpg")},
		Cursor:  "c1",
	}, nil)
	f.api.On("CreateShareLink", mock.Anything, "/images/a.jpg").
		Return("", &provider.Error{Kind: provider.KindNotFound, Status: 409, Summary: "path/not_found/"})

	_, err := f.service.Sync(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, 502, gallery.StatusFor(err))
	f.api.AssertNotCalled(t, "Thumbnail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	row := seedFile(t, f.db, "u1", "my photo.jpg", time.Now())
	_, err := f.service.SaveMeta(ctx, "u1", row.ID, "desc", " x | y |x")
	require.NoError(t, err)

	detail, err := f.service.GetFile(ctx, "u1", row.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://www.dropbox.com/s/key-my%20photo.jpg/my%20photo.jpg?raw=1", detail.ShareURL)
	assert.Equal(t, []string{"x", "y"}, detail.TagNames)

	_, err = f.service.GetFile(ctx, "u2", row.ID)
	assert.ErrorIs(t, err, gallery.ErrFileNotFound)
}

func TestService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := seedFile(t, f.db, "u1", "a.jpg", time.Now())
	b := seedFile(t, f.db, "u1", "b.jpg", time.Now().Add(time.Second))
	_, err := f.service.SaveMeta(ctx, "u1", a.ID, "", "sun|sea|sand")
	require.NoError(t, err)
	_, err = f.service.SaveMeta(ctx, "u1", b.ID, "", "sun")
	require.NoError(t, err)

	page, err := f.service.Search(ctx, "u1", "sun, sea", 1)
	require.NoError(t, err)
	require.Len(t, page.Files, 1)
	assert.Equal(t, a.ID, page.Files[0].ID)

	t.Run("Extra Tags Are Ignored", func(t *testing.T) {
		page, err := f.service.Search(ctx, "u1", "sun|sea|nothing", 1)
		require.NoError(t, err)
		assert.Len(t, page.Files, 1)
	})

	t.Run("Empty Query Lists Everything", func(t *testing.T) {
		page, err := f.service.Search(ctx, "u1", "  ", 1)
		require.NoError(t, err)
		assert.Len(t, page.Files, 2)
	})

	t.Run("Multi Word Tag", func(t *testing.T) {
		c := seedFile(t, f.db, "u1", "c.jpg", time.Now().Add(2*time.Second))
		_, err := f.service.SaveMeta(ctx, "u1", c.ID, "", "new york|beach")
		require.NoError(t, err)

		page, err := f.service.Search(ctx, "u1", "new york", 1)
		require.NoError(t, err)
		require.Len(t, page.Files, 1)
		assert.Equal(t, c.ID, page.Files[0].ID)

		page, err = f.service.Search(ctx, "u1", "new york|beach", 1)
		require.NoError(t, err)
		require.Len(t, page.Files, 1)
		assert.Equal(t, c.ID, page.Files[0].ID)

		page, err = f.service.Search(ctx, "u1", "new", 1)
		require.NoError(t, err)
		assert.Empty(t, page.Files)
	})
}

func TestService_RefetchThumbnail(t *testing.T) {
	f := newFixture(t)
	f.link(t, "u1")
	ctx := context.Background()
	row := seedFile(t, f.db, "u1", "a.jpg", time.Now())

	f.api.On("Thumbnail", mock.Anything, "/images/a.jpg", "w128h128", "jpeg").Return([]byte("fresh"), nil).Once()
	ok, err := f.service.RefetchThumbnail(ctx, "u1", row.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := f.service.OpenThumbnail(ctx, "u1", row.ID)
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, []byte("fresh"), data)

	f.api.On("Thumbnail", mock.Anything, "/images/a.jpg", "w128h128", "jpeg").
		Return(nil, &provider.Error{Kind: provider.KindNotFound, Status: 409}).Once()
	ok, err = f.service.RefetchThumbnail(ctx, "u1", row.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.service.OpenThumbnail(ctx, "u2", row.ID)
	assert.ErrorIs(t, err, gallery.ErrFileNotFound)
}

func TestParseQuery(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, gallery.ParseQuery(" a,b | c ,a "))
	assert.Equal(t, []string{"new york", "beach"}, gallery.ParseQuery("new york|beach"))
	assert.Equal(t, []string{"new york"}, gallery.ParseQuery(" new york "))
	assert.Empty(t, gallery.ParseQuery(""))
}
