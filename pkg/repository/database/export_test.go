package database

import "gorm.io/gorm"

func GormDB(d *Database) *gorm.DB {
	return d.db
}
