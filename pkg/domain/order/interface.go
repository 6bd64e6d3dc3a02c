// Package order is the kitchen's order journal: one entry per accepted
// recipe order, kept independently of the workflow engine so that who
// ordered what survives engine-side retention.
package order

import (
	"context"
	"errors"
	"time"

	apiorders "github.com/mediacloud/sous-chef-kitchen/pkg/api/types/orders"
)

var (
	// ErrMissing : no order with that identity.
	ErrMissing = errors.New("order is missing")

	// ErrDuplicateRun : an order for that flow run is already journaled.
	ErrDuplicateRun = errors.New("order for that run already exists")
)

// Order is one journal entry.
type Order struct {
	OrderId    int64
	RunId      string
	Recipe     string
	Email      string
	TagSlug    string
	Parameters map[string]any
	CreatedAt  time.Time
}

// ComposeDetail converts the entry to its API form.
func (o Order) ComposeDetail() apiorders.Detail {
	return apiorders.Detail{
		OrderId:    o.OrderId,
		RunId:      o.RunId,
		Recipe:     o.Recipe,
		Email:      o.Email,
		TagSlug:    o.TagSlug,
		Parameters: o.Parameters,
		CreatedAt:  o.CreatedAt,
	}
}

// FindQuery selects journal entries. Zero value selects everything.
type FindQuery struct {
	Email   string
	TagSlug string
	Since   *time.Time
	Until   *time.Time
}

// Interface is the journal store.
type Interface interface {
	// Register journals an order and returns its id.
	Register(ctx context.Context, order Order) (int64, error)

	// Get returns one order by id. ErrMissing when not found.
	Get(ctx context.Context, orderId int64) (Order, error)

	// Find returns orders matching the query, newest first.
	Find(ctx context.Context, query FindQuery) ([]Order, error)
}
