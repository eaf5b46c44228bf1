package database

import (
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/event"
)

const (
	watchPrefix = "storefront:notify_"
	pendingKey  = "storefront:pending_changes"
)

// quietStatements never change table contents.
var quietStatements = []string{"SELECT", "WITH", "PRAGMA", "SAVEPOINT", "RELEASE", "ROLLBACK"}

// pending collects the tables changed inside one Transaction. They are
// published once the outermost commit succeeds and dropped on rollback.
type pending struct {
	mu     sync.Mutex
	bus    *event.Bus
	tables []string
}

func (p *pending) add(bus *event.Bus, table string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bus = bus
	for _, t := range p.tables {
		if t == table {
			return
		}
	}
	p.tables = append(p.tables, table)
}

func (p *pending) publish() {
	p.mu.Lock()
	bus, tables := p.bus, p.tables
	p.tables = nil
	p.mu.Unlock()
	if bus == nil {
		return
	}
	for _, t := range tables {
		if t == event.Any {
			bus.Fire(event.Any, nil)
			continue
		}
		bus.Fire(t, t)
	}
}

// Transaction runs fn in a transaction on db. Change events for statements
// run through tx are held until the commit succeeds; a nested call joins the
// outer transaction and its events wait for the outer commit.
func Transaction(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if _, ok := db.Get(pendingKey); ok {
		return db.Transaction(fn)
	}
	p := &pending{}
	if err := db.Set(pendingKey, p).Transaction(fn); err != nil {
		return err
	}
	p.publish()
	return nil
}

// Watch publishes the table name on bus after every successful create,
// update or delete that touched at least one row. Raw statements that are
// not reads publish event.Any because their table is unknown. Statements run
// inside Transaction publish after the commit.
func Watch(db *gorm.DB, bus *event.Bus) error {
	fire := func(tx *gorm.DB, table string) {
		if v, ok := tx.Get(pendingKey); ok {
			v.(*pending).add(bus, table)
			return
		}
		if table == event.Any {
			bus.Fire(event.Any, nil)
			return
		}
		bus.Fire(table, table)
	}

	notify := func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.RowsAffected == 0 {
			return
		}
		if table := tx.Statement.Table; table != "" {
			fire(tx, table)
		}
	}

	notifyRaw := func(tx *gorm.DB) {
		if tx.Error != nil {
			return
		}
		sql := strings.ToUpper(strings.TrimSpace(tx.Statement.SQL.String()))
		for _, prefix := range quietStatements {
			if strings.HasPrefix(sql, prefix) {
				return
			}
		}
		fire(tx, event.Any)
	}

	cb := db.Callback()
	if err := cb.Create().After("gorm:commit_or_rollback_transaction").Register(watchPrefix+"create", notify); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:commit_or_rollback_transaction").Register(watchPrefix+"update", notify); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:commit_or_rollback_transaction").Register(watchPrefix+"delete", notify); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register(watchPrefix+"raw", notifyRaw)
}
