package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAccessDenied is returned when a user is unknown or has no linked account.
	ErrAccessDenied = errors.New("access denied")
	// ErrFileNotFound is returned when a file does not exist or belongs to another user.
	ErrFileNotFound = errors.New("file not found")
)

// Page is one page of a file listing.
type Page struct {
	Files      []File `json:"files"`
	Page       int    `json:"page"`
	TotalFiles int64  `json:"total_files"`
	TotalPages int    `json:"total_pages"`
}

// Catalog reads and writes the gallery tables.
type Catalog struct {
	db                *gorm.DB
	scopeUpsertByUser bool
}

// NewCatalog creates a catalog over db.
func NewCatalog(db *gorm.DB, scopeUpsertByUser bool) *Catalog {
	return &Catalog{db: db, scopeUpsertByUser: scopeUpsertByUser}
}

// WithTx returns a catalog bound to tx.
func (c *Catalog) WithTx(tx *gorm.DB) *Catalog {
	return &Catalog{db: tx, scopeUpsertByUser: c.scopeUpsertByUser}
}

// AccessToken returns the user's provider token.
func (c *Catalog) AccessToken(ctx context.Context, userID string) (string, error) {
	var user User
	err := c.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAccessDenied
	}
	if err != nil {
		return "", err
	}
	if user.AccessToken == nil || *user.AccessToken == "" {
		return "", ErrAccessDenied
	}
	return *user.AccessToken, nil
}

// Cursor returns the user's stored delta cursor, or "".
func (c *Catalog) Cursor(ctx context.Context, userID string) (string, error) {
	var user User
	err := c.db.WithContext(ctx).Select("id", "delta_cursor").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrAccessDenied
	}
	if err != nil {
		return "", err
	}
	if user.DeltaCursor == nil {
		return "", nil
	}
	return *user.DeltaCursor, nil
}

// SetCursor stores the user's delta cursor.
func (c *Catalog) SetCursor(ctx context.Context, userID, cursor string) error {
	res := c.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("delta_cursor", cursor)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAccessDenied
	}
	return nil
}

// LinkUser stores the provider account id and token for userID, creating
// the user when needed. The cursor is kept so a relink resumes where the
// last sync stopped.
func (c *Catalog) LinkUser(ctx context.Context, userID, accountID, token string) error {
	user := User{ID: userID, AccountID: &accountID, AccessToken: &token}
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"account_id", "access_token", "updated_at"}),
	}).Create(&user).Error
}

// GetUser returns the user row, or ErrAccessDenied when there is none.
func (c *Catalog) GetUser(ctx context.Context, userID string) (*User, error) {
	var user User
	err := c.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAccessDenied
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UnlinkUser clears the user's token. Unknown users are ignored.
func (c *Catalog) UnlinkUser(ctx context.Context, userID string) error {
	return c.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).Update("access_token", nil).Error
}

// FindForUpsert looks up the row a synced path maps onto. Unless scoped by
// user the match is on path alone. Returns nil when there is none.
func (c *Catalog) FindForUpsert(ctx context.Context, userID, name string) (*File, error) {
	q := c.db.WithContext(ctx).Where("path = ?", name)
	if c.scopeUpsertByUser {
		q = q.Where("user_id = ?", userID)
	}
	return firstFile(q.Order("id"))
}

// FindByPath returns the user's row for name, or nil.
func (c *Catalog) FindByPath(ctx context.Context, userID, name string) (*File, error) {
	return firstFile(c.db.WithContext(ctx).Where("path = ? AND user_id = ?", name, userID).Order("id"))
}

func firstFile(q *gorm.DB) (*File, error) {
	var file File
	err := q.Limit(1).Find(&file).Error
	if err != nil {
		return nil, err
	}
	if file.ID == 0 {
		return nil, nil
	}
	return &file, nil
}

// CreateFile inserts a new row.
func (c *Catalog) CreateFile(ctx context.Context, file *File) error {
	return c.db.WithContext(ctx).Create(file).Error
}

// DeleteFile removes the row and its tag joins.
func (c *Catalog) DeleteFile(ctx context.Context, id uint) error {
	db := c.db.WithContext(ctx)
	if err := db.Where("image_id = ?", id).Delete(&TagFile{}).Error; err != nil {
		return err
	}
	return db.Delete(&File{}, id).Error
}

// GetFile returns one of the user's files.
func (c *Catalog) GetFile(ctx context.Context, userID string, id uint) (*File, error) {
	var file File
	err := c.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&file).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// Count returns the user's file count and page count for pageSize.
func (c *Catalog) Count(ctx context.Context, userID string, pageSize int) (int64, int, error) {
	var total int64
	if err := c.db.WithContext(ctx).Model(&File{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	return total, pages(total, pageSize), nil
}

// ListFiles returns page (1-based) of the user's files, newest first.
func (c *Catalog) ListFiles(ctx context.Context, userID string, page, pageSize int) (*Page, error) {
	q := c.db.WithContext(ctx).Model(&File{}).Where("user_id = ?", userID)
	return c.paginate(q, page, pageSize)
}

// Search returns the user's files carrying every tag, newest first.
func (c *Catalog) Search(ctx context.Context, userID string, tags []string, page, pageSize int) (*Page, error) {
	db := c.db.WithContext(ctx)
	q := db.Model(&File{}).Where("user_id = ?", userID)
	for _, tag := range tags {
		sub := db.Table("tags_images").
			Select("tags_images.image_id").
			Joins("JOIN tags ON tags.id = tags_images.tag_id").
			Where("tags.user_id = ? AND tags.tag = ?", userID, tag)
		q = q.Where("id IN (?)", sub)
	}
	return c.paginate(q, page, pageSize)
}

func (c *Catalog) paginate(q *gorm.DB, page, pageSize int) (*Page, error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	files := []File{}
	err := q.Session(&gorm.Session{}).
		Order("date_added DESC").Order("id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&files).Error
	if err != nil {
		return nil, err
	}

	return &Page{Files: files, Page: page, TotalFiles: total, TotalPages: pages(total, pageSize)}, nil
}

// Tags returns the user's tag names in creation order.
func (c *Catalog) Tags(ctx context.Context, userID string) ([]string, error) {
	tags := []string{}
	err := c.db.WithContext(ctx).Model(&Tag{}).Where("user_id = ?", userID).Order("id").Pluck("tag", &tags).Error
	return tags, err
}

// SaveMeta replaces the file's description and tags in one transaction and
// returns the tags that did not exist for the user before.
func (c *Catalog) SaveMeta(ctx context.Context, userID string, id uint, description string, tags []string) ([]string, error) {
	created := []string{}
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var file File
		err := tx.Where("id = ? AND user_id = ?", id, userID).First(&file).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		if err != nil {
			return err
		}

		var existing []Tag
		if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
			return err
		}
		ids := make(map[string]uint, len(existing))
		for _, t := range existing {
			ids[t.Tag] = t.ID
		}

		if err := tx.Where("image_id = ?", id).Delete(&TagFile{}).Error; err != nil {
			return err
		}

		for _, name := range tags {
			tagID, ok := ids[name]
			if !ok {
				tag := Tag{Tag: name, UserID: userID}
				if err := tx.Create(&tag).Error; err != nil {
					return fmt.Errorf("failed to create tag %q: %w", name, err)
				}
				tagID = tag.ID
				ids[name] = tagID
				created = append(created, name)
			}
			if err := tx.Create(&TagFile{TagID: tagID, FileID: id}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&File{}).Where("id = ?", id).Updates(map[string]any{
			"description": description,
			"tags":        strings.Join(tags, "|"),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func pages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// splitTags splits s on sep, trims each part, drops empties and duplicates.
func splitTags(s, sep string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
