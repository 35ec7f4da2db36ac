package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/farmmart/farmmart-platform/internal/models"
	"github.com/farmmart/farmmart-platform/internal/utils"
)

type PaymentRepository interface {
	CreateIntent(ctx context.Context, intent *models.PaymentIntent) error
	GetIntentByID(ctx context.Context, id string) (*models.PaymentIntent, error)
	UpdateIntentStatus(ctx context.Context, id string, status models.PaymentIntentStatus) error
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepository {
	return &paymentRepository{DB: db}
}

func (r *paymentRepository) CreateIntent(ctx context.Context, intent *models.PaymentIntent) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO payment_intents (id, buyer_id, amount, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`

	_, err := r.DB.ExecContext(dbCtx, query,
		intent.ID, intent.BuyerID, intent.Amount, intent.Currency, intent.Status)
	if err != nil {
		return fmt.Errorf("failed to insert payment intent: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetIntentByID(ctx context.Context, id string) (*models.PaymentIntent, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	intent := &models.PaymentIntent{}

	query := `
		SELECT id, buyer_id, amount, currency, status, created_at, updated_at
		FROM payment_intents
		WHERE id = $1
	`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&intent.ID, &intent.BuyerID, &intent.Amount, &intent.Currency,
			&intent.Status, &intent.CreatedAt, &intent.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the payment intent: %w", err)
	}

	return intent, nil
}

func (r *paymentRepository) UpdateIntentStatus(ctx context.Context, id string, status models.PaymentIntentStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE payment_intents SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update the payment intent status: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
