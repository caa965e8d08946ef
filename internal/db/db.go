package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotFound = errors.New("record not found")

type PostgresDB struct {
	db *gorm.DB
}

func NewPostgresDB(dsn string) (*PostgresDB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return &PostgresDB{}, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresDB{
		db: db,
	}, nil
}

func (f *PostgresDB) MigrateTables(tbl ...any) error {
	err := f.db.AutoMigrate(tbl...)
	if err != nil {
		return fmt.Errorf("failed to migrate table: %w", err)
	}

	return nil
}

// SaveRecord inserts a single record; the primary key is populated on return.
func (f *PostgresDB) SaveRecord(ctx context.Context, record any) error {
	if err := f.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert to table: %w", err)
	}
	return nil
}

func (f *PostgresDB) GetOneWhere(ctx context.Context, conds map[string]any, entity any) error {
	err := f.db.WithContext(ctx).Where(conds).First(entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("getting record: %w", err)
	}
	return nil
}

// GetAllWhere fetches every record matching conds. An empty orderBy keeps the
// store's natural order; a non-positive limit means no limit.
func (f *PostgresDB) GetAllWhere(ctx context.Context, conds map[string]any, orderBy string, limit int, entity any) error {
	tx := f.db.WithContext(ctx).Where(conds)
	if orderBy != "" {
		tx = tx.Order(orderBy)
	}
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(entity).Error; err != nil {
		return fmt.Errorf("getting records: %w", err)
	}
	return nil
}

func (f *PostgresDB) UpdateWhere(ctx context.Context, model any, conds map[string]any, updates map[string]any) error {
	tx := f.db.WithContext(ctx).Model(model).Where(conds).Updates(updates)
	if tx.Error != nil {
		return fmt.Errorf("updating records: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
