package database

import (
	"fmt"
	"log"
	"time"

	"garage_backend/pkg/config"
	"garage_backend/pkg/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

const connectAttempts = 5

// Dialector picks the gorm driver for DB_DRIVER
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "postgres":
		// Disable implicit prepared statements to avoid "prepared statement already exists" errors
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

// Open connects with the service's gorm settings
func Open(driver, dsn string, level logger.LogLevel) (*gorm.DB, error) {
	dialector, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		PrepareStmt:    false,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// InitDatabase initializes the database connection
func InitDatabase() error {
	level := logger.Error
	if config.IsDevelopment() {
		level = logger.Info
	}

	var err error
	for i := 0; i < connectAttempts; i++ {
		DB, err = Open(config.AppConfig.DBDriver, config.AppConfig.DatabaseURL, level)
		if err == nil {
			break
		}
		log.Printf("Connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return err
	}

	// Get underlying SQL database
	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if config.AppConfig.DBDriver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	log.Printf("✅ Database connection established (%s)", DB.Dialector.Name())

	return nil
}

// AllModels lists every table in migration order
func AllModels() []interface{} {
	return []interface{}{
		&models.Operator{},
		&models.DeviceToken{},
		&models.GarageSettings{},

		// Workshop records
		&models.Customer{},
		&models.Bike{},
		&models.Job{},

		// Inventory
		&models.InventoryItem{},
		&models.JobPart{},
		&models.StockMovement{},

		// Packages
		&models.ServicePackage{},
		&models.ServicePackageItem{},

		// Communication
		&models.CommunicationTemplate{},
		&models.CommunicationLog{},
	}
}

// AutoMigrate runs auto-migration for all models
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate creates or updates every table on db
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return err
	}

	log.Println("✅ Database migrations completed")
	return nil
}

// createIndexes adds the indexes gorm tags cannot express on embedded columns
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		name  string
		sql   string
	}{
		{&models.GarageSettings{}, "garage_settings_operator_id_key",
			`CREATE UNIQUE INDEX garage_settings_operator_id_key ON garage_settings (operator_id)`},
		{&models.Job{}, "jobs_operator_id_status_idx",
			`CREATE INDEX jobs_operator_id_status_idx ON jobs (operator_id, status)`},
		{&models.Job{}, "jobs_operator_id_next_service_date_idx",
			`CREATE INDEX jobs_operator_id_next_service_date_idx ON jobs (operator_id, next_service_date)`},
		{&models.Customer{}, "customers_operator_id_created_at_idx",
			`CREATE INDEX customers_operator_id_created_at_idx ON customers (operator_id, created_at)`},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// CloseDatabase closes the database connection
func CloseDatabase() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	} else {
		log.Println("✅ Database connection closed")
	}
}
