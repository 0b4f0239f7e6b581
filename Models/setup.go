package Models

import (
	"log"

	"Blane/Constants"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	connection, err := gorm.Open(sqlite.Open(Constants.DatabasePath))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	DB = connection

	// 1. Base tables first
	DB.AutoMigrate(&VendorPayment{})

	// 2. Then models that reference payments
	DB.AutoMigrate(&PaymentLog{})
}
