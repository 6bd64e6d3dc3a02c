package prefect

import (
	"context"
	"net/http"
)

func (c *client) GetBlockTypeBySlug(ctx context.Context, slug string) (BlockType, error) {
	var bt BlockType
	if err := c.do(ctx, http.MethodGet, c.apipath("block_types", "slug", slug), nil, &bt); err != nil {
		return BlockType{}, err
	}
	return bt, nil
}

func (c *client) FindBlockSchemas(ctx context.Context, blockTypeId string) ([]BlockSchema, error) {
	req := blockSchemaFilterRequest{
		BlockSchemas: &blockSchemaFilter{
			BlockTypeId: &idFilter{Any: []string{blockTypeId}},
		},
	}

	schemas := []BlockSchema{}
	if err := c.do(ctx, http.MethodPost, c.apipath("block_schemas", "filter"), req, &schemas); err != nil {
		return nil, err
	}
	return schemas, nil
}

func (c *client) FindBlockDocuments(ctx context.Context, names []string) ([]BlockDocument, error) {
	req := blockDocumentFilterRequest{}
	if len(names) > 0 {
		req.BlockDocuments = &struct {
			Name *nameFilter `json:"name,omitempty"`
		}{Name: &nameFilter{Any: names}}
	}

	docs := []BlockDocument{}
	if err := c.do(ctx, http.MethodPost, c.apipath("block_documents", "filter"), req, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *client) CreateBlockDocument(ctx context.Context, doc BlockDocument) (BlockDocument, error) {
	var created BlockDocument
	if err := c.do(ctx, http.MethodPost, c.apipath("block_documents"), doc, &created); err != nil {
		return BlockDocument{}, err
	}
	return created, nil
}
