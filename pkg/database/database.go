package database

import (
	"doe_backend/internal/config"
	"doe_backend/internal/model"
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 需要迁移的全部模型，顺序即建表顺序
var Models = []interface{}{
	&model.User{},
	&model.UserCompletion{},
	&model.Invitation{},
	&model.Video{},
	&model.FunFact{},
	&model.Challenge{},
	&model.ChallengeElement{},
	&model.ChallengeDisplaySettings{},
	&model.TextFieldOrder{},
	&model.TableColumn{},
	&model.ChallengeUserChoice{},
	&model.ChallengeAttempt{},
	&model.ChallengeAnswer{},
	&model.ChitChat{},
	&model.ChitChatOption{},
	&model.ChitChatUserChoice{},
	&model.ChitChatAnswer{},
	&model.Quiz{},
	&model.QuizQuestion{},
	&model.QuizUserChoice{},
	&model.QuizAnswer{},
	&model.Content{},
	&model.Reward{},
	&model.UserReward{},
}

// Dialector 按 driver 构造 gorm 方言
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.Port,
			cfg.SSLMode,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "doe.db"
		}
		return sqlite.Open(path + "?_pragma=foreign_keys(1)"), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// sqlite 只允许单写连接
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	log.Printf("Database connection established (%s)", cfg.Driver)
	return db, nil
}

// Migrate 建表并写入默认数据
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return err
	}
	log.Println("Database migration completed")
	return seed(db)
}

func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Reward{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaultRewards := []model.Reward{
		{Title: "Coffee voucher", Description: "A coffee on us", PointsNeeded: 50},
		{Title: "Budget planner", Description: "Printable monthly budget planner", PointsNeeded: 120},
		{Title: "1:1 coaching call", Description: "30 minute call with a money coach", PointsNeeded: 400},
	}
	return db.Create(&defaultRewards).Error
}
