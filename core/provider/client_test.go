package provider_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"picklr/core/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *provider.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	cfg := provider.Config{APIURL: srv.URL, ContentURL: srv.URL, TimeoutSeconds: 2}
	return provider.NewClient(cfg, "tok-123", nil)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_Delta(t *testing.T) {
	t.Run("Initial Listing", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2/files/list_folder", r.URL.Path)
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

			var arg map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&arg))
			assert.Equal(t, "/images", arg["path"])
			assert.Equal(t, true, arg["recursive"])

			writeJSON(w, 200, `{
				"entries": [
					{".tag": "folder", "name": "Images", "path_lower": "/images", "path_display": "/Images"},
					{".tag": "file", "name": "A.jpg", "path_lower": "/images/a.jpg", "path_display": "/Images/A.jpg", "size": 10},
					{".tag": "deleted", "name": "b.jpg", "path_lower": "/images/b.jpg"}
				],
				"cursor": "c1",
				"has_more": true
			}`)
		})

		page, err := client.Delta(context.Background(), "/images", "")
		require.NoError(t, err)
		assert.Equal(t, "c1", page.Cursor)
		assert.True(t, page.HasMore)
		require.Len(t, page.Entries, 3)

		assert.Equal(t, "/images", page.Entries[0].Path)
		assert.True(t, page.Entries[0].Metadata.IsDir())
		assert.Equal(t, "/images/a.jpg", page.Entries[1].Path)
		assert.Equal(t, int64(10), page.Entries[1].Metadata.Size)
		assert.Equal(t, "/images/b.jpg", page.Entries[2].Path)
		assert.Nil(t, page.Entries[2].Metadata)
	})

	t.Run("Continue From Cursor", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2/files/list_folder/continue", r.URL.Path)
			var arg map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&arg))
			assert.Equal(t, "c1", arg["cursor"])
			writeJSON(w, 200, `{"entries": [], "cursor": "c2", "has_more": false}`)
		})

		page, err := client.Delta(context.Background(), "/images", "c1")
		require.NoError(t, err)
		assert.Equal(t, "c2", page.Cursor)
		assert.Empty(t, page.Entries)
	})

	t.Run("Reset Cursor", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 409, `{"error_summary": "reset/..", "error": {".tag": "reset"}}`)
		})

		_, err := client.Delta(context.Background(), "/images", "stale")
		assert.True(t, provider.IsKind(err, provider.KindReset))
	})
}

func TestClient_CreateShareLink(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2/sharing/create_shared_link_with_settings", r.URL.Path)
			writeJSON(w, 200, `{"url": "https://www.dropbox.com/s/key1/a.jpg?dl=0"}`)
		})

		link, err := client.CreateShareLink(context.Background(), "/images/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://www.dropbox.com/s/key1/a.jpg?dl=0", link)
	})

	t.Run("Already Exists Falls Back To Listing", func(t *testing.T) {
		var calls []string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls = append(calls, r.URL.Path)
			if r.URL.Path == "/2/sharing/create_shared_link_with_settings" {
				writeJSON(w, 409, `{"error_summary": "shared_link_already_exists/.."}`)
				return
			}
			var arg map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&arg))
			assert.Equal(t, true, arg["direct_only"])
			writeJSON(w, 200, `{"links": [{"url": "https://www.dropbox.com/s/key2/a.jpg?dl=0"}]}`)
		})

		link, err := client.CreateShareLink(context.Background(), "/images/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://www.dropbox.com/s/key2/a.jpg?dl=0", link)
		assert.Equal(t, []string{"/2/sharing/create_shared_link_with_settings", "/2/sharing/list_shared_links"}, calls)
	})

	t.Run("Not Found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 409, `{"error_summary": "path/not_found/.."}`)
		})

		_, err := client.CreateShareLink(context.Background(), "/images/gone.jpg")
		assert.True(t, provider.IsNotFound(err))
	})
}

func TestClient_Thumbnail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/files/get_thumbnail", r.URL.Path)
		var arg map[string]string
		require.NoError(t, json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg))
		assert.Equal(t, "/images/a.jpg", arg["path"])
		assert.Equal(t, "jpeg", arg["format"])
		assert.Equal(t, "w128h128", arg["size"])
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	})

	data, err := client.Thumbnail(context.Background(), "/images/a.jpg", "w128h128", "jpeg")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
}

func TestClient_CreateFolder(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/2/files/create_folder_v2", r.URL.Path)
			writeJSON(w, 200, `{"metadata": {"name": "Images"}}`)
		})
		assert.NoError(t, client.CreateFolder(context.Background(), "/Images"))
	})

	t.Run("Conflict", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 409, `{"error_summary": "path/conflict/folder/.."}`)
		})
		err := client.CreateFolder(context.Background(), "/Images")
		assert.True(t, provider.IsConflict(err))
	})
}

func TestClient_ErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   provider.Kind
	}{
		{"Unauthorized", 401, `{"error_summary": "invalid_access_token/.."}`, provider.KindAuth},
		{"Rate Limited", 429, `{"error_summary": "too_many_requests/.."}`, provider.KindRateLimited},
		{"Bad Input", 400, `Error in call: bad path`, provider.KindBadRequest},
		{"Server Error", 500, ``, provider.KindProvider},
		{"Other Conflict", 409, `{"error_summary": "path/malformed_path/.."}`, provider.KindProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := client.CreateFolder(context.Background(), "/x")
			pe, ok := provider.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.want, pe.Kind)
			assert.Equal(t, tt.status, pe.Status)
		})
	}
}

func TestClient_TransportErrorIsUntagged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := provider.NewClient(provider.Config{APIURL: srv.URL, ContentURL: srv.URL}, "tok", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Thumbnail(ctx, "/images/a.jpg", "w128h128", "jpeg")
	require.Error(t, err)
	_, tagged := provider.AsError(err)
	assert.False(t, tagged)
}

func TestFactory_SharesLimiter(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		writeJSON(w, 200, `{}`)
	}))
	defer srv.Close()

	f := provider.NewFactory(provider.Config{APIURL: srv.URL, RequestsPerSecond: 1000, Burst: 2})
	a := f.ForToken("a")
	b := f.ForToken("b")
	require.NoError(t, a.CreateFolder(context.Background(), "/x"))
	require.NoError(t, b.CreateFolder(context.Background(), "/y"))
	assert.Equal(t, 2, hits)
}
