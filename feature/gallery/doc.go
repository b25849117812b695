// Package gallery mirrors each user's watched provider folder into a local
// image catalog and serves it.
//
// A sync fetches one delta page, queues its entries as durable tasks and
// drains them through SyncAdapter: upserts resolve a share key and a
// thumbnail, deletes drop the row and its thumbnail. Listing, tag search and
// metadata edits run against the catalog only.
package gallery
