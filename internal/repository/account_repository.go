package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldready/locate-service/internal/domain"
)

// AccountRepository encapsulates service account persistence.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ServiceAccount, error)
	GetByName(ctx context.Context, name string) (*domain.ServiceAccount, error)
	Create(ctx context.Context, account *domain.ServiceAccount) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository instantiates repository.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, organization_id, name, secret_hash, role, active, created_at, updated_at`

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.ServiceAccount, error) {
	const query = `SELECT ` + accountColumns + ` FROM service_accounts WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *accountRepository) GetByName(ctx context.Context, name string) (*domain.ServiceAccount, error) {
	const query = `SELECT ` + accountColumns + ` FROM service_accounts WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *accountRepository) Create(ctx context.Context, account *domain.ServiceAccount) error {
	const query = `
        INSERT INTO service_accounts (organization_id, name, secret_hash, role, active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		account.OrganizationID,
		account.Name,
		account.SecretHash,
		account.Role,
		account.Active,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *accountRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.ServiceAccount, error) {
	var account domain.ServiceAccount
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.OrganizationID,
		&account.Name,
		&account.SecretHash,
		&account.Role,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}
