package repositories

import (
	"context"
	"database/sql"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/ports"
	"errors"
	"fmt"
)

// SQLite-backed implementation of the SubscriptionRepository port.
type SqliteSubscriptionRepository struct{ DB *sql.DB }

func NewSqliteSubscriptionRepository(db *sql.DB) *SqliteSubscriptionRepository {
	return &SqliteSubscriptionRepository{DB: db}
}

func (s *SqliteSubscriptionRepository) Insert(ctx context.Context, sub domain.Subscription) error {
	if s.DB == nil {
		return errors.New("sqlite subscription repository: DB is nil")
	}

	query := `
	INSERT INTO webhook_subscriptions (id, target_url, created_at)
	VALUES (?, ?, ?);
	`
	if _, err := s.DB.ExecContext(ctx, query, sub.ID, sub.TargetURL, sub.CreatedAt); err != nil {
		return fmt.Errorf("insert subscription id=%s: %w", sub.ID, err)
	}
	return nil
}

// Return all registered webhook subscriptions, oldest first.
func (s *SqliteSubscriptionRepository) List(ctx context.Context) ([]domain.Subscription, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite subscription repository: DB is nil")
	}

	query := `
	SELECT
		id,
		target_url,
		created_at
	FROM webhook_subscriptions
	ORDER BY created_at;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: query webhook_subscriptions table: %w", err)
	}
	defer rows.Close()

	subs := make([]domain.Subscription, 0, 16)
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.ID, &sub.TargetURL, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("list subscriptions: scan row: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: row iteration: %w", err)
	}

	return subs, nil
}

func (s *SqliteSubscriptionRepository) Delete(ctx context.Context, id string) error {
	if s.DB == nil {
		return errors.New("sqlite subscription repository: DB is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM webhook_subscriptions WHERE id = ?;`, id)
	if err != nil {
		return fmt.Errorf("delete subscription id=%s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subscription id=%s: rows affected: %w", id, err)
	}
	if n == 0 {
		return ports.ErrSubscriptionNotFound
	}
	return nil
}
