// Package migration keeps the store's schema at a single version number.
//
// Tables register themselves in dependency order (parents first):
//
//	func init() {
//	    migration.Register("categories", &models.Category{})
//	    migration.Register("products", &models.Product{})
//	}
//
// When the version recorded in the store differs from the version the binary
// expects, every registered table is dropped and recreated. Data does not
// survive a version change.
package migration

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// ErrNoTables is returned when a Runner has nothing to manage.
var ErrNoTables = errors.New("migration: no tables registered")

// Table is one registered model.
type Table struct {
	Name  string
	Model interface{}
}

// schemaMeta is the single-row tracking table.
type schemaMeta struct {
	ID        uint      `gorm:"primaryKey"`
	Version   int       `gorm:"not null"`
	AppliedAt time.Time `gorm:"not null"`
}

func (schemaMeta) TableName() string { return "schema_meta" }

// ------------------- Registry -------------------

var (
	mu       sync.Mutex
	registry []Table
)

// Register adds a table to the global registry. Register parents before the
// tables that reference them.
func Register(name string, model interface{}) {
	mu.Lock()
	defer mu.Unlock()
	registry = append(registry, Table{Name: name, Model: model})
}

// Registered returns the registered tables in registration order.
func Registered() []Table {
	mu.Lock()
	defer mu.Unlock()
	return append([]Table(nil), registry...)
}

// ------------------- Runner -------------------

// Result describes what Run did.
type Result struct {
	From       int
	To         int
	Recreated  bool
	FirstBuild bool
}

// Status is the recorded schema state.
type Status struct {
	Version   int
	AppliedAt time.Time
	Recorded  bool
	Expected  int
	Tables    map[string]bool
}

// Runner applies the schema.
type Runner struct {
	db      *gorm.DB
	version int
	tables  []Table
}

// New creates a Runner over the global registry.
func New(db *gorm.DB, version int) *Runner {
	return NewWithTables(db, version, Registered()...)
}

// NewWithTables creates a Runner over an explicit table list.
func NewWithTables(db *gorm.DB, version int, tables ...Table) *Runner {
	return &Runner{db: db, version: version, tables: tables}
}

// Run brings the store to the expected version. A matching version only adds
// missing tables and columns; anything else drops and recreates all tables.
func (r *Runner) Run() (Result, error) {
	if len(r.tables) == 0 {
		return Result{}, ErrNoTables
	}
	if err := r.db.AutoMigrate(&schemaMeta{}); err != nil {
		return Result{}, fmt.Errorf("migration: ensure schema_meta: %w", err)
	}

	meta, recorded, err := r.current()
	if err != nil {
		return Result{}, err
	}

	res := Result{From: meta.Version, To: r.version, FirstBuild: !recorded}
	if recorded && meta.Version == r.version {
		if err := r.db.AutoMigrate(r.models()...); err != nil {
			return res, fmt.Errorf("migration: auto-migrate: %w", err)
		}
		logger.Debug("migration: schema up to date", "version", r.version)
		return res, nil
	}

	if recorded {
		logger.Warn("migration: schema version changed, recreating store",
			"from", meta.Version, "to", r.version)
	}
	if err := r.recreate(); err != nil {
		return res, err
	}
	res.Recreated = recorded
	return res, nil
}

// Fresh drops and recreates every table regardless of the recorded version.
func (r *Runner) Fresh() error {
	if len(r.tables) == 0 {
		return ErrNoTables
	}
	if err := r.db.AutoMigrate(&schemaMeta{}); err != nil {
		return fmt.Errorf("migration: ensure schema_meta: %w", err)
	}
	return r.recreate()
}

// Status reports the recorded version and which tables exist.
func (r *Runner) Status() (Status, error) {
	st := Status{Expected: r.version, Tables: map[string]bool{}}
	m := r.db.Migrator()
	for _, t := range r.tables {
		st.Tables[t.Name] = m.HasTable(t.Model)
	}
	if !m.HasTable(&schemaMeta{}) {
		return st, nil
	}

	meta, recorded, err := r.current()
	if err != nil {
		return st, err
	}
	st.Version, st.AppliedAt, st.Recorded = meta.Version, meta.AppliedAt, recorded
	return st, nil
}

func (r *Runner) recreate() error {
	m := r.db.Migrator()
	for i := len(r.tables) - 1; i >= 0; i-- {
		if err := m.DropTable(r.tables[i].Model); err != nil {
			return fmt.Errorf("migration: drop %s: %w", r.tables[i].Name, err)
		}
	}
	for _, t := range r.tables {
		if err := r.db.AutoMigrate(t.Model); err != nil {
			return fmt.Errorf("migration: create %s: %w", t.Name, err)
		}
	}

	meta := schemaMeta{ID: 1, Version: r.version, AppliedAt: time.Now().UTC()}
	err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&meta).Error
	if err != nil {
		return fmt.Errorf("migration: record version: %w", err)
	}

	logger.Info("migration: schema built", "version", r.version, "tables", len(r.tables))
	return nil
}

func (r *Runner) current() (schemaMeta, bool, error) {
	var meta schemaMeta
	err := r.db.Where("id = ?", 1).Limit(1).Find(&meta).Error
	if err != nil {
		return meta, false, fmt.Errorf("migration: read schema_meta: %w", err)
	}
	return meta, meta.ID == 1, nil
}

func (r *Runner) models() []interface{} {
	out := make([]interface{}, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t.Model)
	}
	return out
}
