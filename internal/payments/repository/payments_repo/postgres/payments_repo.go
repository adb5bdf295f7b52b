package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"shop/internal/payments/domain"
	"shop/internal/payments/repository/payments_repo"
)

// uniqueViolation is the Postgres error code raised by the unique index on
// payments.order_id.
const uniqueViolation = "23505"

type pgPaymentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPaymentRepository(db *sql.DB, logger *zap.Logger) payments_repo.PaymentRepository {
	return &pgPaymentRepository{
		db:     db,
		logger: logger.With(zap.String("component", "PaymentRepositoryPostgres")),
	}
}

func (r *pgPaymentRepository) Create(ctx context.Context, payment *domain.Payment) (int64, error) {
	query := `
		INSERT INTO payments (order_id, user_id, amount, currency, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		payment.OrderID,
		payment.UserID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CreatedAt,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, domain.ErrDuplicatePayment
		}
		r.logger.Error("Failed to insert payment", zap.Int64("order_id", payment.OrderID), zap.Error(err))
		return 0, fmt.Errorf("failed to insert payment: %w", err)
	}
	return id, nil
}

const paymentSelect = `
	SELECT id, order_id, user_id, amount, currency, status, created_at
	FROM payments`

func (r *pgPaymentRepository) GetByOrderID(ctx context.Context, orderID int64) ([]*domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, paymentSelect+` WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments by order: %w", err)
	}
	defer rows.Close()
	return r.scanPayments(rows)
}

func (r *pgPaymentRepository) GetByUserID(ctx context.Context, userID int64) ([]*domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, paymentSelect+` WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments by user: %w", err)
	}
	defer rows.Close()
	return r.scanPayments(rows)
}

func (r *pgPaymentRepository) GetByStatuses(ctx context.Context, statuses []domain.PaymentStatus) ([]*domain.Payment, error) {
	raw := make([]string, 0, len(statuses))
	for _, s := range statuses {
		raw = append(raw, string(s))
	}

	rows, err := r.db.QueryContext(ctx, paymentSelect+` WHERE status = ANY($1) ORDER BY id`, pq.Array(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to query payments by statuses: %w", err)
	}
	defer rows.Close()
	return r.scanPayments(rows)
}

func (r *pgPaymentRepository) TotalSum(ctx context.Context, start, end time.Time, currency string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE status = $1 AND currency = $2 AND created_at BETWEEN $3 AND $4`

	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, domain.StatusSuccess, currency, start, end).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}

func (r *pgPaymentRepository) scanPayments(rows *sql.Rows) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	for rows.Next() {
		p := &domain.Payment{}
		if err := rows.Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment rows: %w", err)
	}
	return payments, nil
}
