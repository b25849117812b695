// Package config loads picklr's configuration.
//
// Values come from a .env file when present and from environment variables,
// which map onto nested keys by replacing dots with underscores
// (SYNC_BATCH_SIZE sets sync.batch_size). Defaults are taken from the
// `default` struct tags of each section.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, identity header, public URL
//   - Database: sqlite or MySQL catalog connection
//   - Storage: S3/MinIO credentials for the s3 thumbnail driver
//   - Thumbs: thumbnail backend, size and placeholder
//   - Provider: app credentials, endpoints, watched root and rate limits
//   - Sync: batch size, workers and per-task timeout
//   - Gallery: page size, search limits and upsert matching
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
