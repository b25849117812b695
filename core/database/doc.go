// Package database opens the catalog database and keeps its schema current.
//
// It wraps GORM with two drivers. sqlite is the default: the catalog is a
// single file with one writer, and Connect pins the pool to a single
// connection so every write goes through the same handle. mysql is available
// for deployments that keep the catalog on a server.
//
// # Schema
//
// Migrate runs GORM's AutoMigrate for the models each feature owns.
// CheckSchema compares those models against the live database and reports
// missing tables and columns, which the migrate command uses for --check.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	if err := database.Migrate(db, gallery.Models()...); err != nil {
//	    log.Fatal(err)
//	}
package database
