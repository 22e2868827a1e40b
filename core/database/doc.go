// Package database handles the MySQL connection for the patch store.
//
// It provides a wrapper around GORM that configures the DSN (charset, UTC
// timestamps, timeouts), a small connection pool suited to the serial access
// pattern of the crawler, and an initial ping with a bounded context.
//
// Schema migration is owned by the patch feature: cmd/start and cmd/crawl run
// AutoMigrate with the feature's models after connecting.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
