// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL, PostgreSQL or SQLite
// connections based on the application's configuration.
//
// # Connect
//
// Connect picks the dialector from Config.Driver, applies pool settings and pings
// the database before returning. SQLite is limited to a single open connection so an
// in-memory database survives across statements (tests rely on this).
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table. The check command uses it to verify
// that the content tables exist with the columns the importer writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "content_houses")
package database
