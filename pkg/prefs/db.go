package prefs

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Preference is one row of the preferences table.
type Preference struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"column:pref_key;primaryKey;size:128"`
	Value     string `gorm:"column:pref_value;type:text;not null"`
}

func (Preference) TableName() string { return "preferences" }

// DB stores a namespace in the preferences table.
type DB struct {
	db        *gorm.DB
	namespace string
}

// NewDB returns a store for namespace backed by db. The preferences table
// must already exist.
func NewDB(db *gorm.DB, namespace string) *DB {
	return &DB{db: db, namespace: namespace}
}

func (s *DB) Get(ctx context.Context, key string) (string, bool, error) {
	var rows []Preference
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND pref_key = ?", s.namespace, key).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return "", false, fmt.Errorf("prefs: get %s: %w", key, err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].Value, true, nil
}

func (s *DB) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []Preference
	if err := s.db.WithContext(ctx).Where("namespace = ?", s.namespace).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("prefs: get all: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (s *DB) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]Preference, 0, len(values))
	for k, v := range values {
		rows = append(rows, Preference{Namespace: s.namespace, Key: k, Value: v})
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "pref_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"pref_value"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("prefs: set: %w", err)
	}
	return nil
}

func (s *DB) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND pref_key IN ?", s.namespace, keys).
		Delete(&Preference{}).Error
	if err != nil {
		return fmt.Errorf("prefs: delete: %w", err)
	}
	return nil
}

func (s *DB) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Where("namespace = ?", s.namespace).Delete(&Preference{}).Error
	if err != nil {
		return fmt.Errorf("prefs: clear: %w", err)
	}
	return nil
}
