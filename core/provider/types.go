package provider

import "time"

// Metadata describes a file or folder on the provider.
type Metadata struct {
	Tag            string    `json:".tag"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PathLower      string    `json:"path_lower"`
	PathDisplay    string    `json:"path_display"`
	Size           int64     `json:"size"`
	ServerModified time.Time `json:"server_modified"`
}

// IsDir reports whether the metadata describes a folder.
func (m *Metadata) IsDir() bool {
	return m != nil && m.Tag == "folder"
}

// Entry is one change in a delta page. Metadata is nil when the path was
// deleted.
type Entry struct {
	Path     string
	Metadata *Metadata
}

// DeltaPage is one page of changes since a cursor.
type DeltaPage struct {
	Entries []Entry
	Cursor  string
	HasMore bool
}

type listFolderArg struct {
	Path           string `json:"path"`
	Recursive      bool   `json:"recursive"`
	IncludeDeleted bool   `json:"include_deleted"`
}

type listFolderContinueArg struct {
	Cursor string `json:"cursor"`
}

type listFolderResult struct {
	Entries []Metadata `json:"entries"`
	Cursor  string     `json:"cursor"`
	HasMore bool       `json:"has_more"`
}

type pathArg struct {
	Path string `json:"path"`
}

type createFolderArg struct {
	Path       string `json:"path"`
	Autorename bool   `json:"autorename"`
}

type listSharedLinksArg struct {
	Path       string `json:"path"`
	DirectOnly bool   `json:"direct_only"`
}

type sharedLink struct {
	URL string `json:"url"`
}

type listSharedLinksResult struct {
	Links []sharedLink `json:"links"`
}

type thumbnailArg struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Size   string `json:"size"`
}

type apiError struct {
	ErrorSummary string `json:"error_summary"`
}
