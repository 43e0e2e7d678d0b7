// Package config provides configuration management for gyrinx-content.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults are declared on the partial config structs through
// `default:"..."` tags and registered with Viper by reflection.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Database: database driver and connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Content: ruleset root, source kind and report publishing
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Content.Ruleset)
package config
