// Package thumbs stores catalog thumbnails, one image per catalog row,
// addressed by the row id as <id>.jpg.
//
// Two backends implement Store: LocalStore writes to a directory on disk and
// BucketStore writes objects to S3/MinIO through core/storage. Both hold a
// placeholder image that the sync reconciler substitutes when the provider
// cannot produce a thumbnail. Remove treats a missing thumbnail as success.
package thumbs
