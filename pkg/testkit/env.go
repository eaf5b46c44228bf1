package testkit

import (
	"testing"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Env is a watched store with the full repository stack over it. Stream
// callbacks run on the refreshing goroutine unless Hub is rebuilt with a
// poster.
type Env struct {
	DB    *gorm.DB
	Bus   *event.Bus
	Pool  *workerpool.Pool
	Hub   *live.Hub
	DAO   *dao.Set
	Repos *repositories.Set
}

// NewEnv builds an Env with a single-worker pool. Everything is torn down
// when the test ends.
func NewEnv(t testing.TB) *Env {
	t.Helper()
	db, bus := NewWatchedStore(t)
	pool := workerpool.New(1)
	hub := live.NewHub(bus, nil)
	daos := dao.New(db)
	repos := repositories.New(daos, pool, hub)

	t.Cleanup(func() {
		repos.Cleanup()
		pool.Shutdown()
	})
	return &Env{DB: db, Bus: bus, Pool: pool, Hub: hub, DAO: daos, Repos: repos}
}
