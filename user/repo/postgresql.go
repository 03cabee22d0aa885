package repo

import (
	"log"

	"github.com/AdventureDe/PinLink/user/repo/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB 初始化数据库连接
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	DB = db

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return DB, nil
}

// AutoMigrate migrates the models owned by this package.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
	)
}

// CloseDB 关闭数据库连接
func CloseDB() {
	if DB == nil {
		return
	}
	sqlDB, err := DB.DB()
	if err != nil {
		log.Println("failed to get sql.DB instance:", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Println("failed to close database connection:", err)
	}
}
