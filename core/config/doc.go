// Package config provides configuration management for bulkdozer.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file. Defaults come from the `default` struct tags of every
// section.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: workbook database (sqlite or MySQL)
//   - Storage: S3/MinIO credentials and the export bucket
//   - Log: Logging level and format
//   - Remote: Campaign Manager endpoint, credentials and retry policy
//   - Cache: shared cache backend and limits
//   - Sync: load and push run options
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Remote.ProfileID)
package config
