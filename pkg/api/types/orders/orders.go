// Package orders has request/response types of the kitchen API order journal.
package orders

import "time"

// Detail is one journal entry: an accepted recipe order.
type Detail struct {
	OrderId    int64          `json:"orderId"`
	RunId      string         `json:"runId"`
	Recipe     string         `json:"recipe"`
	Email      string         `json:"email"`
	TagSlug    string         `json:"tagSlug"`
	Parameters map[string]any `json:"parameters"`
	CreatedAt  time.Time      `json:"createdAt"`
}
