package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/thehungrydrop/hungrydrop/internal/models"
)

const uniqueViolation = "23505"

// Postgres implements Gateway over a Postgres database using pgx.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database at dsn and verifies the connection.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (g *Postgres) Close() {
	if g != nil && g.pool != nil {
		g.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	address       TEXT NOT NULL DEFAULT '',
	city          TEXT NOT NULL DEFAULT '',
	zip_code      TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
	token             TEXT PRIMARY KEY,
	owner_id          UUID REFERENCES accounts(id),
	customer_name     TEXT NOT NULL,
	customer_email    TEXT NOT NULL,
	customer_phone    TEXT NOT NULL,
	delivery_address  TEXT NOT NULL DEFAULT '',
	delivery_city     TEXT NOT NULL DEFAULT '',
	delivery_zip      TEXT NOT NULL DEFAULT '',
	items             JSONB NOT NULL,
	order_type        TEXT NOT NULL,
	payment_method    TEXT NOT NULL,
	subtotal          DOUBLE PRECISION NOT NULL,
	delivery_fee      DOUBLE PRECISION NOT NULL,
	total             DOUBLE PRECISION NOT NULL,
	status            TEXT NOT NULL,
	estimated_minutes INT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS orders_owner_idx ON orders (owner_id, created_at DESC);
`

// InitSchema creates the accounts and orders tables if they do not exist.
func (g *Postgres) InitSchema(ctx context.Context) error {
	if _, err := g.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func (g *Postgres) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	_, err := g.pool.Exec(ctx, `
		INSERT INTO accounts (id, email, password_hash, name, phone, address, city, zip_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, account.ID, account.Email, account.PasswordHash, account.Name,
		account.Phone, account.Address, account.City, account.ZipCode, account.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Account{}, ErrEmailTaken
		}
		return models.Account{}, fmt.Errorf("failed to insert account: %w", err)
	}
	return account, nil
}

func (g *Postgres) FindAccount(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	err := g.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, phone, address, city, zip_code, created_at
		FROM accounts
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.Name,
		&account.Phone, &account.Address, &account.City, &account.ZipCode, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, ErrAccountNotFound
		}
		return models.Account{}, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

func (g *Postgres) UpdateAccount(ctx context.Context, id string, profile models.ProfileUpdate) error {
	tag, err := g.pool.Exec(ctx, `
		UPDATE accounts
		SET name = $2, phone = $3, address = $4, city = $5, zip_code = $6
		WHERE id = $1
	`, id, profile.Name, profile.Phone, profile.Address, profile.City, profile.ZipCode)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (g *Postgres) UpdateAccountPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := g.pool.Exec(ctx, `
		UPDATE accounts SET password_hash = $2 WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update account password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (g *Postgres) InsertOrder(ctx context.Context, order models.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	var ownerID any
	if order.OwnerID != "" {
		ownerID = order.OwnerID
	}

	_, err = g.pool.Exec(ctx, `
		INSERT INTO orders
			(token, owner_id, customer_name, customer_email, customer_phone,
			 delivery_address, delivery_city, delivery_zip, items, order_type,
			 payment_method, subtotal, delivery_fee, total, status,
			 estimated_minutes, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, order.ID, ownerID, order.CustomerInfo.Name, order.CustomerInfo.Email,
		order.CustomerInfo.Phone, order.CustomerInfo.Address, order.CustomerInfo.City,
		order.CustomerInfo.ZipCode, items, order.OrderType, order.PaymentMethod,
		order.Subtotal, order.DeliveryFee, order.Total, order.Status,
		order.EstimatedTime, order.OrderDate)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (g *Postgres) ListOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	rows, err := g.pool.Query(ctx, selectOrders+` WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (g *Postgres) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := g.pool.Query(ctx, selectOrders+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

func (g *Postgres) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	tag, err := g.pool.Exec(ctx, `
		UPDATE orders SET status = $2 WHERE token = $1
	`, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

const selectOrders = `
	SELECT token, owner_id, customer_name, customer_email, customer_phone,
	       delivery_address, delivery_city, delivery_zip, items, order_type,
	       payment_method, subtotal, delivery_fee, total, status,
	       estimated_minutes, created_at
	FROM orders`

func scanOrders(rows pgx.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		var (
			order   models.Order
			ownerID *string
			items   []byte
		)
		err := rows.Scan(&order.ID, &ownerID, &order.CustomerInfo.Name,
			&order.CustomerInfo.Email, &order.CustomerInfo.Phone,
			&order.CustomerInfo.Address, &order.CustomerInfo.City,
			&order.CustomerInfo.ZipCode, &items, &order.OrderType,
			&order.PaymentMethod, &order.Subtotal, &order.DeliveryFee,
			&order.Total, &order.Status, &order.EstimatedTime, &order.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		if ownerID != nil {
			order.OwnerID = *ownerID
		}
		if err := json.Unmarshal(items, &order.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}
	return orders, nil
}
