package repositories

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// AddressRepository serves the address book.
type AddressRepository struct {
	base
	dao dao.AddressDAO
}

func NewAddressRepository(d dao.AddressDAO, pool *workerpool.Pool, hub *live.Hub) *AddressRepository {
	return &AddressRepository{base: newBase("addresses", pool, hub), dao: d}
}

// Insert resolves to the new address id.
func (r *AddressRepository) Insert(ctx context.Context, a models.Address) *workerpool.Future[uint] {
	return submit(&r.base, "insert", func() (uint, error) {
		if err := r.dao.Insert(ctx, &a); err != nil {
			return 0, err
		}
		return a.ID, nil
	})
}

func (r *AddressRepository) Update(ctx context.Context, a models.Address) *workerpool.Done {
	return exec(&r.base, "update", func() error { return r.dao.Update(ctx, &a) })
}

func (r *AddressRepository) Delete(ctx context.Context, id uint) *workerpool.Done {
	return exec(&r.base, "delete", func() error { return r.dao.Delete(ctx, id) })
}

func (r *AddressRepository) SetDefault(ctx context.Context, userID, addressID uint) *workerpool.Done {
	return exec(&r.base, "set_default", func() error { return r.dao.SetDefault(ctx, userID, addressID) })
}

func (r *AddressRepository) DeleteAllForUser(ctx context.Context, userID uint) *workerpool.Done {
	return exec(&r.base, "delete_all_for_user", func() error { return r.dao.DeleteAllForUser(ctx, userID) })
}

// ─── Streams ──────────────────────────────────────────────────────────────────

func (r *AddressRepository) ForUser(userID uint) live.Stream[[]models.Address] {
	return query(&r.base, func(ctx context.Context) ([]models.Address, error) {
		return r.dao.ForUser(ctx, userID)
	}, tAddresses)
}

func (r *AddressRepository) Default(userID uint) live.Stream[*models.Address] {
	return optional(&r.base, func(ctx context.Context) (models.Address, error) {
		return r.dao.Default(ctx, userID)
	}, tAddresses)
}

func (r *AddressRepository) Count(userID uint) live.Stream[int64] {
	return query(&r.base, func(ctx context.Context) (int64, error) {
		return r.dao.CountForUser(ctx, userID)
	}, tAddresses)
}
