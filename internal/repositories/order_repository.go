package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/farmmart/farmmart-platform/internal/models"
	"github.com/farmmart/farmmart-platform/internal/utils"
	"github.com/google/uuid"
)

type OrderRepository interface {
	// CreateOrders writes a whole checkout batch in one transaction: either
	// every farmer's order lands or none does.
	CreateOrders(ctx context.Context, orders []*models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, page, size int) ([]models.Order, int, error)
	ListOrdersByFarmer(ctx context.Context, farmerID uuid.UUID, page, size int) ([]models.Order, int, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateOrders(ctx context.Context, orders []*models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (id, buyer_id, farmer_id, status, payment_method, payment_intent_id, delivery, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, product_name, tier, quantity, unit_price, line_total, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`

	for _, order := range orders {

		delivery, err := json.Marshal(order.Delivery)
		if err != nil {
			return fmt.Errorf("failed to marshal delivery info: %w", err)
		}

		_, err = tx.ExecContext(dbCtx, orderQuery,
			order.ID, order.BuyerID, order.FarmerID, order.Status, order.PaymentMethod,
			order.PaymentIntentID, delivery, order.TotalAmount)
		if err != nil {
			return fmt.Errorf("failed to insert order: %w", err)
		}

		for _, item := range order.Items {
			_, err := tx.ExecContext(dbCtx, itemQuery,
				item.ID, order.ID, item.ProductID, item.ProductName, item.Tier,
				item.Quantity, item.UnitPrice, item.LineTotal)
			if err != nil {
				return fmt.Errorf("failed to insert an order item: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order batch: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT buyer_id, farmer_id, status, payment_method, payment_intent_id, delivery, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var deliveryJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&order.BuyerID, &order.FarmerID, &order.Status, &order.PaymentMethod,
			&order.PaymentIntentID, &deliveryJSON, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	if err := json.Unmarshal(deliveryJSON, &order.Delivery); err != nil {
		return nil, fmt.Errorf("failed to unmarshal delivery info: %w", err)
	}

	items, err := r.listOrderItems(dbCtx, id)
	if err != nil {
		return nil, err
	}

	order.Items = items

	return order, nil
}

func (r *orderRepository) listOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {

	query := `
		SELECT id, product_id, product_name, tier, quantity, unit_price, line_total, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}

	defer rows.Close()

	var items []models.OrderItem

	for rows.Next() {
		var item models.OrderItem

		err := rows.Scan(&item.ID, &item.ProductID, &item.ProductName, &item.Tier,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.OrderID = orderID
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *orderRepository) ListOrdersByBuyer(ctx context.Context, buyerID uuid.UUID, page, size int) ([]models.Order, int, error) {
	return r.listOrdersBy(ctx, "buyer_id", buyerID, page, size)
}

func (r *orderRepository) ListOrdersByFarmer(ctx context.Context, farmerID uuid.UUID, page, size int) ([]models.Order, int, error) {
	return r.listOrdersBy(ctx, "farmer_id", farmerID, page, size)
}

func (r *orderRepository) listOrdersBy(ctx context.Context, column string, id uuid.UUID, page, size int) ([]models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM orders WHERE %s = $1`, column)
	if err := r.DB.QueryRowContext(dbCtx, countQuery, id).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * size

	query := fmt.Sprintf(`
		SELECT id, buyer_id, farmer_id, status, payment_method, payment_intent_id, delivery, total_amount, created_at, updated_at
		FROM orders
		WHERE %s = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, column)

	rows, err := r.DB.QueryContext(dbCtx, query, id, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {
		var order models.Order
		var deliveryJSON []byte

		err := rows.Scan(&order.ID, &order.BuyerID, &order.FarmerID, &order.Status, &order.PaymentMethod,
			&order.PaymentIntentID, &deliveryJSON, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan the orders: %w", err)
		}

		if err := json.Unmarshal(deliveryJSON, &order.Delivery); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal delivery info: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.listOrderItems(dbCtx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}

		orders[i].Items = items
	}

	return orders, total, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
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
