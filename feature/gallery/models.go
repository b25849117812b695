package gallery

import "time"

// User is a caller identity and the provider account linked to it.
// AccountID is the provider's id for the linked account.
type User struct {
	ID          string    `gorm:"primaryKey;type:varchar(255)" json:"id"`
	AccountID   *string   `gorm:"column:account_id;type:varchar(255);index" json:"account_id"`
	AccessToken *string   `gorm:"column:access_token;type:text" json:"-"`
	DeltaCursor *string   `gorm:"column:delta_cursor;type:text" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName overrides the table name used by GORM.
func (User) TableName() string { return "users" }

// File is one mirrored image. Path holds the basename only.
type File struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Path        string    `gorm:"column:path;type:varchar(255);index;not null" json:"path"`
	ShareKey    string    `gorm:"column:sharekey;type:varchar(255)" json:"sharekey"`
	UserID      string    `gorm:"column:user_id;type:varchar(255);index;not null" json:"user_id"`
	DateAdded   time.Time `gorm:"column:date_added;autoCreateTime;index" json:"date_added"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	Tags        string    `gorm:"column:tags;type:text" json:"tags"`
}

// TableName overrides the table name used by GORM.
func (File) TableName() string { return "images" }

// TagList splits the flattened tag string.
func (f *File) TagList() []string {
	if f.Tags == "" {
		return []string{}
	}
	return splitTags(f.Tags, "|")
}

// Tag is a user-defined label.
type Tag struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Tag    string `gorm:"column:tag;type:varchar(255);not null" json:"tag"`
	UserID string `gorm:"column:user_id;type:varchar(255);index;not null" json:"user_id"`
}

// TableName overrides the table name used by GORM.
func (Tag) TableName() string { return "tags" }

// TagFile joins a tag to an image.
type TagFile struct {
	TagID  uint `gorm:"column:tag_id;index;not null"`
	FileID uint `gorm:"column:image_id;index;not null"`
}

// TableName overrides the table name used by GORM.
func (TagFile) TableName() string { return "tags_images" }

// Models returns the catalog tables for migration.
func Models() []any {
	return []any{&User{}, &File{}, &Tag{}, &TagFile{}}
}
