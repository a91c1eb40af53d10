// Package database handles database connections for the SQL document store.
//
// It provides a wrapper around GORM to configure either a MySQL server or a local
// SQLite file based on the application's configuration, with connection timeouts and a
// startup ping.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
