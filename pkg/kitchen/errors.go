package kitchen

import "errors"

var (
	// ErrRecipeNotFound : no recipe with that name (or hidden from the caller).
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrAdminOnly : the recipe is restricted to admin users.
	ErrAdminOnly = errors.New("recipe is restricted to admin users")

	// ErrInvalidParams : order parameters do not satisfy the recipe schema.
	ErrInvalidParams = errors.New("invalid recipe parameters")

	// ErrQuotaExceeded : the caller already has the allowed number of active runs.
	ErrQuotaExceeded = errors.New("active run quota exceeded")

	// ErrRunNotFound : no such flow run (or not in the expected state).
	ErrRunNotFound = errors.New("run not found")

	// ErrRunNotAuthorized : the run does not carry the caller's tags.
	ErrRunNotAuthorized = errors.New("run does not carry the required tags")

	// ErrNoDeployment : the configured deployment is not registered in the engine.
	ErrNoDeployment = errors.New("deployment not registered in the workflow engine")

	// ErrStateRefused : the engine refused the state transition.
	ErrStateRefused = errors.New("workflow engine refused the state transition")
)
