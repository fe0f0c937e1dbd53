package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fanfund/internal/domain"
)

// AccountRepository creates an account together with its artist profile.
type AccountRepository interface {
	// CreateAccount inserts user and, when artist is not nil, artist bound to the new user.
	// Either both rows exist afterwards or neither does.
	CreateAccount(ctx context.Context, user *domain.User, artist *domain.Artist) error
}

type accountRepository struct {
	pool TxDB
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool TxDB) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) CreateAccount(ctx context.Context, user *domain.User, artist *domain.Artist) error {
	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := NewUserRepository(tx).Create(ctx, user); err != nil {
			return err
		}
		if artist == nil {
			return nil
		}
		artist.UserID = user.ID
		return NewArtistRepository(tx).Create(ctx, artist)
	})
}
