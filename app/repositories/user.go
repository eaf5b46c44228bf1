package repositories

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/dao"
	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/live"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// UserRepository serves accounts. Passwords arrive already hashed.
type UserRepository struct {
	base
	dao dao.UserDAO
}

func NewUserRepository(d dao.UserDAO, pool *workerpool.Pool, hub *live.Hub) *UserRepository {
	return &UserRepository{base: newBase("users", pool, hub), dao: d}
}

// Register stores u and resolves to its id. A taken email fails with
// dao.ErrEmailTaken; the unique index decides, not a prior lookup.
func (r *UserRepository) Register(ctx context.Context, u models.User) *workerpool.Future[uint] {
	return submit(&r.base, "register", func() (uint, error) {
		if err := r.dao.Insert(ctx, &u); err != nil {
			return 0, err
		}
		return u.ID, nil
	})
}

func (r *UserRepository) Update(ctx context.Context, u models.User) *workerpool.Done {
	return exec(&r.base, "update", func() error { return r.dao.Update(ctx, &u) })
}

func (r *UserRepository) Delete(ctx context.Context, id uint) *workerpool.Done {
	return exec(&r.base, "delete", func() error { return r.dao.Delete(ctx, id) })
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id uint, name, email, phone string) *workerpool.Done {
	return exec(&r.base, "update_profile", func() error {
		return r.dao.UpdateProfile(ctx, id, name, email, phone)
	})
}

func (r *UserRepository) UpdateProfilePicture(ctx context.Context, id uint, uri string) *workerpool.Done {
	return exec(&r.base, "update_profile_picture", func() error {
		return r.dao.UpdateProfilePicture(ctx, id, uri)
	})
}

// ChangePassword fails with dao.ErrWrongPassword when currentHash is not
// the stored hash.
func (r *UserRepository) ChangePassword(ctx context.Context, id uint, currentHash, newHash string) *workerpool.Done {
	return exec(&r.base, "change_password", func() error {
		return r.dao.UpdatePassword(ctx, id, currentHash, newHash)
	})
}

// Authenticate resolves to the user matching email and hash, or fails with
// dao.ErrNotFound.
func (r *UserRepository) Authenticate(ctx context.Context, email, hash string) *workerpool.Future[models.User] {
	return submit(&r.base, "authenticate", func() (models.User, error) {
		return r.dao.Login(ctx, email, hash)
	})
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) *workerpool.Future[bool] {
	return submit(&r.base, "email_exists", func() (bool, error) {
		return r.dao.EmailExists(ctx, email)
	})
}

// ─── Streams ──────────────────────────────────────────────────────────────────

func (r *UserRepository) ByID(id uint) live.Stream[*models.User] {
	return optional(&r.base, func(ctx context.Context) (models.User, error) {
		return r.dao.Get(ctx, id)
	}, tUsers)
}

func (r *UserRepository) ByEmail(email string) live.Stream[*models.User] {
	return optional(&r.base, func(ctx context.Context) (models.User, error) {
		return r.dao.GetByEmail(ctx, email)
	}, tUsers)
}
