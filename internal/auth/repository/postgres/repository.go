package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kalpajyotisaikia/sharpy-auth-service/internal/auth/domain"
)

// PgxIface is the subset of pgxpool.Pool the repository needs. pgxmock
// pools satisfy it in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db PgxIface
}

func NewPostgresRepository(db PgxIface) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Exists(ctx context.Context, phone string) (bool, error) {
	query := `SELECT id FROM users WHERE phone = $1 LIMIT 1;`

	var id string
	err := r.db.QueryRow(ctx, query, phone).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return true, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, phone, email, school, class, address, password_hash,
		                   is_premium, coins, max_devices, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Phone, user.Email, user.School, user.Class, user.Address,
		user.PasswordHash, user.IsPremium, user.Coins, user.MaxDevices, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `
		SELECT id, name, phone, email, school, class, address, password_hash,
		       is_premium, coins, max_devices, created_at, updated_at
		FROM users
		WHERE phone = $1
		LIMIT 1;
	`

	return r.scanUser(r.db.QueryRow(ctx, query, phone))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, name, phone, email, school, class, address, password_hash,
		       is_premium, coins, max_devices, created_at, updated_at
		FROM users
		WHERE id = $1
		LIMIT 1;
	`

	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.Name, &user.Phone, &user.Email, &user.School,
		&user.Class, &user.Address, &user.PasswordHash, &user.IsPremium,
		&user.Coins, &user.MaxDevices, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) AddCoins(ctx context.Context, userID string, amount int) error {
	query := `UPDATE users SET coins = coins + $1, updated_at = now() WHERE id = $2;`

	tag, err := r.db.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add coins: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no user with id %s", userID)
	}

	return nil
}

func (r *PostgresRepository) IsPremium(ctx context.Context, userID string) (bool, error) {
	query := `SELECT is_premium FROM users WHERE id = $1;`

	var premium bool
	err := r.db.QueryRow(ctx, query, userID).Scan(&premium)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check premium status: %w", err)
	}

	return premium, nil
}

func (r *PostgresRepository) AddNotification(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.db.Exec(ctx, query, n.ID, n.UserID, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add notification: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetNotifications(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	query := `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}

	return notifications, nil
}

// Persistent reports true: rows live in PostgreSQL and survive restarts.
func (r *PostgresRepository) Persistent() bool {
	return true
}
