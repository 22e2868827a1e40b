// Package config provides configuration management for the patch tracker.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: MySQL connection details
//   - Storage: S3/MinIO credentials for the raw patch-note archive
//   - Notify: Redis channel used to signal downstream caches after a crawl
//   - Log: Logging level and format
//
// Defaults come from `default` struct tags and are bound recursively, so every
// key is also reachable through the environment (e.g. DATABASE_HOST,
// NOTIFY_ADDR, STORAGE_BUCKET).
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
