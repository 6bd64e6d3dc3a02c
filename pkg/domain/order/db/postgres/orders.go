// Package postgres stores the order journal in PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	kord "github.com/mediacloud/sous-chef-kitchen/pkg/domain/order"
)

// Schema of the order journal. Applied idempotently on startup.
const Schema = `
CREATE TABLE IF NOT EXISTS "kitchen_order" (
	"order_id"   BIGSERIAL PRIMARY KEY,
	"run_id"     UUID NOT NULL UNIQUE,
	"recipe"     VARCHAR(256) NOT NULL,
	"email"      VARCHAR(256) NOT NULL,
	"tag_slug"   VARCHAR(256) NOT NULL,
	"parameters" JSONB NOT NULL DEFAULT '{}'::jsonb,
	"created_at" TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS "kitchen_order_email" ON "kitchen_order" ("email");
CREATE INDEX IF NOT EXISTS "kitchen_order_tag_slug" ON "kitchen_order" ("tag_slug");
`

type orderPG struct { // implements order.Interface
	pool *pgxpool.Pool
}

// New connects to the database and ensures the journal schema.
func New(ctx context.Context, dburi string) (kord.Interface, func(), error) {
	pool, err := pgxpool.Connect(ctx, dburi)
	if err != nil {
		return nil, nil, err
	}
	if _, err := pool.Exec(ctx, Schema); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("cannot ensure order journal schema: %w", err)
	}
	return &orderPG{pool: pool}, pool.Close, nil
}

// Wrap builds a store over an existing pool (tests).
func Wrap(pool *pgxpool.Pool) kord.Interface {
	return &orderPG{pool: pool}
}

func (o *orderPG) Register(ctx context.Context, order kord.Order) (int64, error) {
	params, err := json.Marshal(order.Parameters)
	if err != nil {
		return 0, err
	}

	var orderId int64
	err = o.pool.QueryRow(
		ctx,
		`
		INSERT INTO "kitchen_order" ("run_id", "recipe", "email", "tag_slug", "parameters")
		VALUES ($1, $2, $3, $4, $5)
		RETURNING "order_id"
		`,
		order.RunId, order.Recipe, order.Email, order.TagSlug, params,
	).Scan(&orderId)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%w: run %s", kord.ErrDuplicateRun, order.RunId)
		}
		return 0, err
	}
	return orderId, nil
}

func (o *orderPG) Get(ctx context.Context, orderId int64) (kord.Order, error) {
	rows, err := o.pool.Query(
		ctx,
		`
		SELECT "order_id", "run_id", "recipe", "email", "tag_slug", "parameters", "created_at"
		FROM "kitchen_order" WHERE "order_id" = $1
		`,
		orderId,
	)
	if err != nil {
		return kord.Order{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		return kord.Order{}, fmt.Errorf(`%w: order_id = %d in "kitchen_order"`, kord.ErrMissing, orderId)
	}
	return scanOrder(rows)
}

func (o *orderPG) Find(ctx context.Context, query kord.FindQuery) ([]kord.Order, error) {
	where := `TRUE`
	args := []any{}
	if query.Email != "" {
		args = append(args, query.Email)
		where += fmt.Sprintf(` AND "email" = $%d`, len(args))
	}
	if query.TagSlug != "" {
		args = append(args, query.TagSlug)
		where += fmt.Sprintf(` AND "tag_slug" = $%d`, len(args))
	}
	if query.Since != nil {
		args = append(args, *query.Since)
		where += fmt.Sprintf(` AND $%d <= "created_at"`, len(args))
	}
	if query.Until != nil {
		args = append(args, *query.Until)
		where += fmt.Sprintf(` AND "created_at" < $%d`, len(args))
	}

	rows, err := o.pool.Query(
		ctx,
		`
		SELECT "order_id", "run_id", "recipe", "email", "tag_slug", "parameters", "created_at"
		FROM "kitchen_order" WHERE `+where+`
		ORDER BY "created_at" DESC, "order_id" DESC
		`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []kord.Order{}
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

func scanOrder(rows pgx.Rows) (kord.Order, error) {
	var (
		ord    kord.Order
		params []byte
	)
	if err := rows.Scan(
		&ord.OrderId, &ord.RunId, &ord.Recipe, &ord.Email,
		&ord.TagSlug, &params, &ord.CreatedAt,
	); err != nil {
		return kord.Order{}, err
	}
	if err := json.Unmarshal(params, &ord.Parameters); err != nil {
		return kord.Order{}, err
	}
	return ord, nil
}
