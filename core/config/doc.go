// Package config provides configuration management for lingx.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (via godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: catalog store connection details (MySQL or sqlite)
//   - Storage: S3/MinIO credentials for catalog snapshot archives
//   - Log: Logging level and format
//   - Reconcile: diff/merge pipeline tunables (preview cache TTL, retries)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
