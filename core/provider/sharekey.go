package provider

import (
	"fmt"
	"net/url"
	"strings"
)

// ShareKey extracts the key from a public share URL: the second component of
// the URL path. "https://www.dropbox.com/s/abc123/a.jpg?dl=0" yields "abc123".
func ShareKey(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("invalid share url %q: %w", link, err)
	}
	parts := strings.Split(u.Path, "/")
	if len(parts) < 3 || parts[2] == "" {
		return "", fmt.Errorf("share url %q has no key component", link)
	}
	return parts[2], nil
}

// ShareURL rebuilds a direct public URL from a stored share key and the
// file's basename.
func ShareURL(host, key, name string) string {
	return fmt.Sprintf("%s/s/%s/%s?raw=1", strings.TrimRight(host, "/"), url.PathEscape(key), url.PathEscape(name))
}
