package data

import (
	"log"

	"gorm.io/gorm"

	"github.com/daoscope/snapvote/src/gov"
)

// MustMySQL connects or exits. Only called from main.
func MustMySQL(dsn string) *gorm.DB {
	db, err := ConnectMySQL(dsn)
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate creates or updates the proposals and recommendations tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&gov.Proposal{}, &gov.Recommendation{})
}
