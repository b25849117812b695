// Package integrity provides catalog health checks.
//
// # Checks Provided
//
//   - Schema: every catalog table and column exists in the connected database.
//   - Thumbnails: every file of the calling user has a stored thumbnail.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/thumbnails : Runs the thumbnail check (supports ?fix=true).
package integrity
