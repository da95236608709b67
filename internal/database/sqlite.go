// internal/database/sqlite.go
package database

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

const sqliteDriverName = "sqlite3_inventory"

// sqliteLowerFunc folds full Unicode; SQLite's built-in LOWER only folds ASCII.
const sqliteLowerFunc = "unicode_lower"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(sqliteLowerFunc, strings.ToLower, true)
		},
	})
}

// LowerFunc names the SQL function that lower-cases text for db's dialect.
func LowerFunc(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return sqliteLowerFunc
	}
	return "LOWER"
}
