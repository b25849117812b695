package gallery_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"picklr/core/database"
	"picklr/core/reconcile"
	"picklr/feature/gallery"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, append(gallery.Models(), &reconcile.Task{})...))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

func seedFile(t *testing.T, db *gorm.DB, userID, name string, added time.Time) *gallery.File {
	t.Helper()
	f := &gallery.File{Path: name, ShareKey: "key-" + name, UserID: userID, DateAdded: added}
	require.NoError(t, db.Create(f).Error)
	return f
}

func TestCatalog_ListFiles(t *testing.T) {
	db := setupDB(t)
	catalog := gallery.NewCatalog(db, false)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		seedFile(t, db, "u1", fmt.Sprintf("%02d.jpg", i), base.Add(time.Duration(i)*time.Minute))
	}
	seedFile(t, db, "u2", "other.jpg", base)

	page, err := catalog.ListFiles(context.Background(), "u1", 1, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(30), page.TotalFiles)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Files, 25)
	assert.Equal(t, "29.jpg", page.Files[0].Path)

	page, err = catalog.ListFiles(context.Background(), "u1", 2, 25)
	require.NoError(t, err)
	require.Len(t, page.Files, 5)
	assert.Equal(t, "00.jpg", page.Files[4].Path)

	t.Run("Page Below One Is First Page", func(t *testing.T) {
		page, err := catalog.ListFiles(context.Background(), "u1", 0, 25)
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, "29.jpg", page.Files[0].Path)
	})

	t.Run("Count", func(t *testing.T) {
		total, pages, err := catalog.Count(context.Background(), "u2", 25)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, 1, pages)
	})
}

func TestCatalog_SaveMetaAndSearch(t *testing.T) {
	db := setupDB(t)
	catalog := gallery.NewCatalog(db, false)
	ctx := context.Background()
	now := time.Now()
	f1 := seedFile(t, db, "u1", "a.jpg", now)
	f2 := seedFile(t, db, "u1", "b.jpg", now.Add(time.Second))

	created, err := catalog.SaveMeta(ctx, "u1", f1.ID, "beach day", []string{"cat", "dog"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, created)

	created, err = catalog.SaveMeta(ctx, "u1", f2.ID, "", []string{"dog"})
	require.NoError(t, err)
	assert.Empty(t, created)

	tags, err := catalog.Tags(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, tags)

	got, err := catalog.GetFile(ctx, "u1", f1.ID)
	require.NoError(t, err)
	assert.Equal(t, "beach day", got.Description)
	assert.Equal(t, "cat|dog", got.Tags)
	assert.Equal(t, []string{"cat", "dog"}, got.TagList())

	page, err := catalog.Search(ctx, "u1", []string{"dog"}, 1, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalFiles)
	assert.Equal(t, "b.jpg", page.Files[0].Path)

	page, err = catalog.Search(ctx, "u1", []string{"cat", "dog"}, 1, 25)
	require.NoError(t, err)
	require.Len(t, page.Files, 1)
	assert.Equal(t, f1.ID, page.Files[0].ID)

	t.Run("Resave Replaces Joins", func(t *testing.T) {
		created, err := catalog.SaveMeta(ctx, "u1", f1.ID, "", []string{"bird"})
		require.NoError(t, err)
		assert.Equal(t, []string{"bird"}, created)

		page, err := catalog.Search(ctx, "u1", []string{"cat"}, 1, 25)
		require.NoError(t, err)
		assert.Empty(t, page.Files)
	})

	t.Run("Tags Are Per User", func(t *testing.T) {
		page, err := catalog.Search(ctx, "u2", []string{"dog"}, 1, 25)
		require.NoError(t, err)
		assert.Zero(t, page.TotalFiles)
	})

	t.Run("Other Users File", func(t *testing.T) {
		_, err := catalog.SaveMeta(ctx, "u2", f1.ID, "x", nil)
		assert.ErrorIs(t, err, gallery.ErrFileNotFound)
	})
}

func TestCatalog_Users(t *testing.T) {
	db := setupDB(t)
	catalog := gallery.NewCatalog(db, false)
	ctx := context.Background()

	_, err := catalog.AccessToken(ctx, "u1")
	assert.ErrorIs(t, err, gallery.ErrAccessDenied)

	require.NoError(t, catalog.LinkUser(ctx, "u1", "dbid:1", "tok-1"))
	require.NoError(t, catalog.SetCursor(ctx, "u1", "c1"))
	require.NoError(t, catalog.LinkUser(ctx, "u1", "dbid:2", "tok-2"))

	user, err := catalog.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user.AccountID)
	assert.Equal(t, "dbid:2", *user.AccountID)

	token, err := catalog.AccessToken(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)

	cursor, err := catalog.Cursor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "c1", cursor)

	require.NoError(t, catalog.UnlinkUser(ctx, "u1"))
	_, err = catalog.AccessToken(ctx, "u1")
	assert.ErrorIs(t, err, gallery.ErrAccessDenied)

	assert.ErrorIs(t, catalog.SetCursor(ctx, "nobody", "c"), gallery.ErrAccessDenied)

	_, err = catalog.GetUser(ctx, "nobody")
	assert.ErrorIs(t, err, gallery.ErrAccessDenied)
}

func TestCatalog_FindForUpsert(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	existing := seedFile(t, db, "u1", "a.jpg", time.Now())

	t.Run("Path Only", func(t *testing.T) {
		file, err := gallery.NewCatalog(db, false).FindForUpsert(ctx, "u2", "a.jpg")
		require.NoError(t, err)
		require.NotNil(t, file)
		assert.Equal(t, existing.ID, file.ID)
	})

	t.Run("Scoped By User", func(t *testing.T) {
		file, err := gallery.NewCatalog(db, true).FindForUpsert(ctx, "u2", "a.jpg")
		require.NoError(t, err)
		assert.Nil(t, file)
	})
}

func TestCatalog_SetCursorFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users` SET `delta_cursor`").WillReturnError(errors.New("read only"))
	mock.ExpectRollback()

	err := gallery.NewCatalog(db, false).SetCursor(context.Background(), "u1", "c1")
	assert.ErrorContains(t, err, "read only")
	assert.NoError(t, mock.ExpectationsWereMet())
}
