package gallery

// Config holds gallery catalog settings.
type Config struct {
	// PageSize is the number of files per listing page.
	PageSize int `mapstructure:"page_size" default:"25"`
	// MaxSearchTags caps the tags a single search may filter on.
	MaxSearchTags int `mapstructure:"max_search_tags" default:"10"`
	// ScopeUpsertByUser matches existing rows on (user, path) during sync
	// instead of path alone.
	ScopeUpsertByUser bool `mapstructure:"scope_upsert_by_user" default:"false"`
}

func (c Config) pageSize() int {
	if c.PageSize <= 0 {
		return 25
	}
	return c.PageSize
}

func (c Config) maxSearchTags() int {
	if c.MaxSearchTags <= 0 {
		return 10
	}
	return c.MaxSearchTags
}
