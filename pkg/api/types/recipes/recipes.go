// Package recipes has request/response types of the kitchen API about recipes.
package recipes

// Summary describes an available recipe.
type Summary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	AdminOnly   bool   `json:"adminOnly,omitempty"`
}

// ParamSpec describes one parameter a recipe accepts.
type ParamSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Default     any    `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Schema is the full parameter schema of a recipe.
type Schema struct {
	Recipe string      `json:"recipe"`
	Params []ParamSpec `json:"params"`
}

// Order is the request body for starting a recipe.
type Order struct {
	Parameters map[string]any `json:"parameters"`
}
