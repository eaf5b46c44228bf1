package testkit

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"
)

// Hasher is a testify mock of crypt.Hasher.
//
//	h := new(testkit.Hasher)
//	h.On("Hash", "secret").Return("", errors.New("no digest"))
type Hasher struct {
	mock.Mock
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	args := h.Called(plaintext)
	return args.String(0), args.Error(1)
}

// Disk is a testify mock of storage.Disk.
type Disk struct {
	mock.Mock
}

func (d *Disk) Put(ctx context.Context, path string, r io.Reader) error {
	return d.Called(ctx, path, r).Error(0)
}

func (d *Disk) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	args := d.Called(ctx, path)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (d *Disk) Exists(ctx context.Context, path string) (bool, error) {
	args := d.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (d *Disk) Delete(ctx context.Context, path string) error {
	return d.Called(ctx, path).Error(0)
}

func (d *Disk) URL(path string) string {
	return d.Called(path).String(0)
}

// Poster queues posted funcs until Drain runs them, standing in for the UI
// loop when a test needs to observe what was posted.
type Poster struct {
	mu    sync.Mutex
	queue []func()
}

func (p *Poster) Post(fn func()) {
	p.mu.Lock()
	p.queue = append(p.queue, fn)
	p.mu.Unlock()
}

// Drain runs queued funcs, including any they post, and reports how many ran.
func (p *Poster) Drain() int {
	n := 0
	for {
		p.mu.Lock()
		q := p.queue
		p.queue = nil
		p.mu.Unlock()
		if len(q) == 0 {
			return n
		}
		for _, fn := range q {
			fn()
			n++
		}
	}
}
