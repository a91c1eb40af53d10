package pinstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greenspring/core/reconcile"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is one named JSON document row.
type Document struct {
	Name      string `gorm:"primaryKey;size:191"`
	Body      string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName pins the table name regardless of naming strategy.
func (Document) TableName() string {
	return "pin_documents"
}

// SQLStore keeps both documents as rows of the pin_documents table. Each save is a
// single upsert statement.
type SQLStore struct {
	db         *gorm.DB
	configName string
	stateName  string
	logger     *zap.Logger
}

// NewSQLStore creates a store on an open connection.
func NewSQLStore(db *gorm.DB, configName, stateName string, logger *zap.Logger) *SQLStore {
	return &SQLStore{db: db, configName: configName, stateName: stateName, logger: logger}
}

// Migrate creates or updates the documents table.
func (s *SQLStore) Migrate() error {
	if err := s.db.AutoMigrate(&Document{}); err != nil {
		return fmt.Errorf("failed to migrate pin_documents: %w", err)
	}
	return nil
}

// LoadConfig reads the topology, returning an empty one when missing or invalid.
func (s *SQLStore) LoadConfig(ctx context.Context) reconcile.PinConfig {
	data, ok := s.get(ctx, s.configName)
	if !ok {
		return reconcile.EmptyConfig()
	}
	return decodeConfig(s.logger, s.configName, data)
}

// LoadState reads the state mapping, returning an empty one when missing or invalid.
func (s *SQLStore) LoadState(ctx context.Context) reconcile.PinState {
	data, ok := s.get(ctx, s.stateName)
	if !ok {
		return reconcile.PinState{}
	}
	return decodeState(s.logger, s.stateName, data)
}

// SaveConfig replaces the topology row.
func (s *SQLStore) SaveConfig(ctx context.Context, cfg reconcile.PinConfig) error {
	data, err := reconcile.EncodeConfig(cfg)
	if err != nil {
		return err
	}
	return s.put(ctx, s.configName, data)
}

// SaveState replaces the state row.
func (s *SQLStore) SaveState(ctx context.Context, state reconcile.PinState) error {
	data, err := reconcile.EncodeState(state)
	if err != nil {
		return err
	}
	return s.put(ctx, s.stateName, data)
}

func (s *SQLStore) get(ctx context.Context, name string) ([]byte, bool) {
	var doc Document
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&doc).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("Failed to read pin document", zap.String("name", name), zap.Error(err))
		}
		return nil, false
	}
	return []byte(doc.Body), true
}

func (s *SQLStore) put(ctx context.Context, name string, data []byte) error {
	doc := Document{Name: name, Body: string(data), UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&doc).Error
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", name, err)
	}
	return nil
}
