package repository

import (
	"gorm.io/gorm"
)

// CatalogOrder sorts products the way they are shown at the register
func CatalogOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

// NotDeleted skips rows with a blank id, which the catalog cannot index
func NotDeleted(db *gorm.DB) *gorm.DB {
	return db.Where("id <> ''")
}
