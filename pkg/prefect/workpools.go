package prefect

import (
	"context"
	"net/http"
)

func (c *client) GetWorkPool(ctx context.Context, name string) (WorkPool, error) {
	var pool WorkPool
	if err := c.do(ctx, http.MethodGet, c.apipath("work_pools", name), nil, &pool); err != nil {
		return WorkPool{}, err
	}
	return pool, nil
}

func (c *client) CreateWorkPool(ctx context.Context, pool WorkPoolCreate) (WorkPool, error) {
	var created WorkPool
	if err := c.do(ctx, http.MethodPost, c.apipath("work_pools"), pool, &created); err != nil {
		return WorkPool{}, err
	}
	return created, nil
}

func (c *client) FindWorkers(ctx context.Context, workPoolName string) ([]Worker, error) {
	workers := []Worker{}
	if err := c.do(
		ctx, http.MethodPost,
		c.apipath("work_pools", workPoolName, "workers", "filter"),
		struct{}{}, &workers,
	); err != nil {
		return nil, err
	}
	return workers, nil
}
