package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/fetchbar/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrTransferNotFound is returned when no transfer matches the requested ID
var ErrTransferNotFound = errors.New("transfer not found")

// filterColumns lists the columns FindAll accepts as filters
var filterColumns = map[string]bool{
	"status":   true,
	"strategy": true,
	"outcome":  true,
}

// SQLiteTransferRepository implements TransferRepository using SQLite
type SQLiteTransferRepository struct {
	db *gorm.DB
}

// NewSQLiteTransferRepository creates a new SQLite repository
func NewSQLiteTransferRepository(dbPath string) (*SQLiteTransferRepository, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" would see its own empty database
	if dbPath == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&domain.Transfer{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteTransferRepository{db: db}, nil
}

// Create creates a new transfer
func (r *SQLiteTransferRepository) Create(transfer *domain.Transfer) error {
	return r.db.Create(transfer).Error
}

// Update updates an existing transfer
func (r *SQLiteTransferRepository) Update(transfer *domain.Transfer) error {
	return r.db.Save(transfer).Error
}

// Delete deletes a transfer by ID
func (r *SQLiteTransferRepository) Delete(id string) error {
	result := r.db.Delete(&domain.Transfer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransferNotFound
	}
	return nil
}

// FindByID finds a transfer by ID
func (r *SQLiteTransferRepository) FindByID(id string) (*domain.Transfer, error) {
	var transfer domain.Transfer
	err := r.db.First(&transfer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// FindAll finds all transfers with optional filters, newest first
func (r *SQLiteTransferRepository) FindAll(filters map[string]interface{}) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	query := r.db

	for key, value := range filters {
		if !filterColumns[key] {
			return nil, fmt.Errorf("unsupported filter: %s", key)
		}
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	err := query.Order("created_at DESC").Find(&transfers).Error
	return transfers, err
}

// GetStats returns transfer statistics
func (r *SQLiteTransferRepository) GetStats() (*domain.TransferStats, error) {
	stats := &domain.TransferStats{}

	if err := r.db.Model(&domain.Transfer{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.TransferStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.Transfer{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusProcessing:
			stats.Processing = sc.Count
		case domain.StatusCompleted:
			stats.Completed = sc.Count
		case domain.StatusFailed:
			stats.Failed = sc.Count
		case domain.StatusCancelled:
			stats.Cancelled = sc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (r *SQLiteTransferRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
