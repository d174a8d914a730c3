// Package database provides the SQLite store backing the driver's small
// amounts of persistent state, primarily cloud credentials.
//
// # Architecture
//
// The package wraps database/sql with a DB type that handles connection
// setup (WAL mode, busy timeout, restrictive file permissions) and
// lifecycle management. Consumers such as the credentials package create
// their own tables on first use.
//
// The connection pool is capped at a single connection because SQLite
// only supports one writer at a time and the driver's write volume is
// tiny.
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        "/var/lib/kasa-alpaca/driver.db",
//	    WALMode:     true,
//	    BusyTimeout: 5,
//	})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
package database
