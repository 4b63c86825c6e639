package repositories

import (
	"context"
	"database/sql"
	"delivery-tracker-service/internal/domain"
	"delivery-tracker-service/internal/platform/obs"
	"delivery-tracker-service/internal/ports"
	"errors"
	"fmt"
)

// SQLSubscriptionRepository is the Postgres-backed implementation of the
// SubscriptionRepository port, used when DATABASE_URL is configured.
type SQLSubscriptionRepository struct {
	DB *sql.DB
}

func NewSQLSubscriptionRepository(db *sql.DB) *SQLSubscriptionRepository {
	return &SQLSubscriptionRepository{DB: db}
}

func (s *SQLSubscriptionRepository) Insert(ctx context.Context, sub domain.Subscription) (err error) {
	defer obs.Time(ctx, "subscriptions.Insert")(&err)

	if s.DB == nil {
		return errors.New("subscription repository: db is nil")
	}

	q := `
	INSERT INTO webhook_subscriptions (id, target_url, created_at)
    VALUES ($1, $2, $3);
	`
	if _, err := s.DB.ExecContext(ctx, q, sub.ID, sub.TargetURL, sub.CreatedAt); err != nil {
		return fmt.Errorf("insert subscription id=%s: %w", sub.ID, err)
	}
	return nil
}

func (s *SQLSubscriptionRepository) List(ctx context.Context) (_ []domain.Subscription, err error) {
	defer obs.Time(ctx, "subscriptions.List")(&err)

	if s.DB == nil {
		return nil, errors.New("subscription repository: db is nil")
	}

	q := `
	SELECT id, target_url, created_at
    FROM webhook_subscriptions
    ORDER BY created_at;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: query webhook_subscriptions table: %w", err)
	}
	defer rows.Close()

	subs := make([]domain.Subscription, 0, 16)
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.ID, &sub.TargetURL, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("list subscriptions: scan rows: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscriptions: row iteration: %w", err)
	}

	return subs, nil
}

func (s *SQLSubscriptionRepository) Delete(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "subscriptions.Delete")(&err)

	if s.DB == nil {
		return errors.New("subscription repository: db is nil")
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM webhook_subscriptions WHERE id = $1;`, id)
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
