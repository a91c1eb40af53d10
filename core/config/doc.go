// Package config provides configuration management for GreenSpring.
//
// Settings come from environment variables, optionally seeded from a .env file, and
// fall back to the `default` struct tags of each section. Nested keys map to upper case
// variables joined by underscores, e.g. mqtt.prefix is MQTT_PREFIX.
//
// # Sections
//
//   - Server: HTTP port, dashboard assets, API key and shutdown timeout
//   - Log: level and format
//   - GPIO: driver backend (sim or periph)
//   - MQTT: broker bridge
//   - Store: pin document backend (file, s3, sql or memory)
//   - Storage: S3/MinIO credentials and bucket
//   - Database: MySQL or SQLite connection
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
