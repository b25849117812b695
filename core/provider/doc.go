// Package provider is a client for the remote storage provider (Dropbox API
// v2) that the gallery mirrors.
//
// # Calls
//
//   - Delta: list_folder / list_folder/continue, one page per call. Entries
//     carry the lowercased path; deleted entries have nil Metadata.
//   - CreateShareLink: create_shared_link_with_settings, falling back to
//     list_shared_links when a link already exists.
//   - Thumbnail: content get_thumbnail with a JSON Dropbox-API-Arg header.
//   - CreateFolder: create_folder_v2.
//
// Requests are authorized by an oauth2.Transport over a static token and
// paced by a golang.org/x/time/rate limiter shared through Factory.
//
// # Errors
//
// A response the provider rejects becomes *Error with a Kind (not_found,
// conflict, reset, auth, rate_limited, bad_request, provider). Timeouts and
// connection failures are returned as-is, so callers can tell "the provider
// said no" from "the provider could not be reached":
//
//	if provider.IsKind(err, provider.KindAuth) { ... }
//
// # OAuth
//
// OAuth wraps golang.org/x/oauth2 for the authorization code flow and reads
// the account id from the token response.
package provider
