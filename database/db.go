package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hotel-broker/config"
	"hotel-broker/logger"
	auditModel "hotel-broker/models/audit"
	catalogModel "hotel-broker/models/catalog"
	pricingModel "hotel-broker/models/pricing"
	reservationModel "hotel-broker/models/reservation"
	userModel "hotel-broker/models/user"
)

var DB *gorm.DB

// InitDB opens the PostgreSQL connection, runs staged migrations and builds
// the supporting indexes.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var err error
	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey, which the reservation repository relies on for
	// idempotent creates.
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order.
func autoMigrate() error {
	// Stage 1: foundation models with no foreign keys.
	stage1Models := []interface{}{
		&userModel.User{},
		&catalogModel.Currency{},
		&catalogModel.BoardType{},
		&catalogModel.Facility{},
		&catalogModel.RoomAttribute{},
		&catalogModel.Location{},
	}
	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models referencing stage 1.
	stage2Models := []interface{}{
		&catalogModel.Hotel{},
		&pricingModel.PriceRule{},
		&pricingModel.Commission{},
	}
	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: reservations and their event stream.
	stage3Models := []interface{}{
		&reservationModel.Reservation{},
		&reservationModel.StatusEvent{},
	}
	for _, model := range stage3Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 4: append-only operational tables.
	remainingModels := []interface{}{
		&auditModel.AuditLog{},
		&catalogModel.SyncRun{},
	}
	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// User indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_uuid ON users(uuid)").Error; err != nil {
		return fmt.Errorf("failed to create user uuid index: %w", err)
	}

	// Reservation indexes
	if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_client_reference_id ON reservations(client_reference_id)").Error; err != nil {
		return fmt.Errorf("failed to create reservation client_reference_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)").Error; err != nil {
		return fmt.Errorf("failed to create reservation status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON reservations(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create reservation user_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_reservations_agency_id ON reservations(agency_id)").Error; err != nil {
		return fmt.Errorf("failed to create reservation agency_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_reservations_price_code ON reservations(price_code)").Error; err != nil {
		return fmt.Errorf("failed to create reservation price_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_reservation_status_events_reservation_id ON reservation_status_events(reservation_id)").Error; err != nil {
		return fmt.Errorf("failed to create status event reservation_id index: %w", err)
	}

	// Pricing indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_price_rules_is_active ON price_rules(is_active)").Error; err != nil {
		return fmt.Errorf("failed to create price rule is_active index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_commissions_agency_id ON commissions(agency_id)").Error; err != nil {
		return fmt.Errorf("failed to create commission agency_id index: %w", err)
	}

	// Audit indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_audit_logs_entity ON audit_logs(entity_name, entity_id)").Error; err != nil {
		return fmt.Errorf("failed to create audit entity index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_audit_logs_created_at ON audit_logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create audit created_at index: %w", err)
	}

	// Catalog indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_hotels_location_id ON hotels(location_id)").Error; err != nil {
		return fmt.Errorf("failed to create hotel location_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_locations_parent_id ON locations(parent_id)").Error; err != nil {
		return fmt.Errorf("failed to create location parent_id index: %w", err)
	}

	return nil
}
