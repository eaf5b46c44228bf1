package database_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/event"
)

type widget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type gadget struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) listen(bus *event.Bus, names ...string) {
	for _, n := range names {
		n := n
		bus.Listen(n, func(interface{}) {
			r.mu.Lock()
			r.events = append(r.events, n)
			r.mu.Unlock()
		})
	}
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func watched(t *testing.T) (*gorm.DB, *recorder) {
	t.Helper()
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, db.AutoMigrate(&widget{}, &gadget{}))

	bus := event.New()
	require.NoError(t, database.Watch(db, bus))
	rec := &recorder{}
	rec.listen(bus, "widgets", "gadgets")
	return db, rec
}

func TestWatch_PlainWritesPublishImmediately(t *testing.T) {
	db, rec := watched(t)

	require.NoError(t, db.Create(&widget{Name: "a"}).Error)
	assert.Equal(t, []string{"widgets"}, rec.seen())

	require.NoError(t, db.Model(&widget{}).Where("name = ?", "nope").Update("name", "b").Error)
	assert.Equal(t, []string{"widgets"}, rec.seen(), "no rows touched, no event")
}

func TestTransaction_PublishesAfterCommit(t *testing.T) {
	db, rec := watched(t)

	err := database.Transaction(db, func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&widget{Name: "a"}).Error)
		require.NoError(t, tx.Create(&widget{Name: "b"}).Error)
		require.NoError(t, tx.Create(&gadget{Name: "c"}).Error)
		assert.Empty(t, rec.seen(), "nothing published before commit")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"widgets", "gadgets"}, rec.seen())
}

func TestTransaction_RollbackPublishesNothing(t *testing.T) {
	db, rec := watched(t)

	boom := errors.New("boom")
	err := database.Transaction(db, func(tx *gorm.DB) error {
		require.NoError(t, tx.Create(&widget{Name: "a"}).Error)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rec.seen())

	var n int64
	require.NoError(t, db.Model(&widget{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestTransaction_NestedWaitsForOuterCommit(t *testing.T) {
	db, rec := watched(t)

	err := database.Transaction(db, func(tx *gorm.DB) error {
		inner := database.Transaction(tx, func(tx *gorm.DB) error {
			return tx.Create(&gadget{Name: "x"}).Error
		})
		require.NoError(t, inner)
		assert.Empty(t, rec.seen(), "inner commit is not the outer commit")
		return tx.Create(&widget{Name: "y"}).Error
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"widgets", "gadgets"}, rec.seen())
}
