// Package database manages the gorm connection.
package database

import (
	"database/sql"

	"sekolah/pkg/logger"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the shared gorm instance
var DB *gorm.DB

// SQLDB is the underlying sql.DB, used for pool settings
var SQLDB *sql.DB

// Connect opens the database connection.
func Connect(dbConfig gorm.Dialector, _logger gormlogger.Interface) {
	var err error
	DB, err = gorm.Open(dbConfig, &gorm.Config{
		Logger: _logger,
	})
	if err != nil {
		logger.ErrorString("database", "connect", err.Error())
		panic(err)
	}

	SQLDB, err = DB.DB()
	if err != nil {
		logger.ErrorString("database", "sqldb", err.Error())
		panic(err)
	}
}

// AutoMigrate migrates all registered tables.
func AutoMigrate(tables []interface{}) error {
	return DB.AutoMigrate(tables...)
}
