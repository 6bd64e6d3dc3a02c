package recipe

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/mediacloud/sous-chef-kitchen/pkg/utils/filewatch"
)

// Registry holds the recipes found in a directory of recipe files.
//
// It is safe for concurrent use. Reload swaps the whole catalog; a
// broken file fails the reload and keeps the previous catalog.
type Registry struct {
	dir string

	mu      sync.RWMutex
	recipes map[string]Recipe
}

// LoadRegistry reads every *.yaml / *.yml file under dir as a recipe.
func LoadRegistry(dir string) (*Registry, error) {
	reg := &Registry{dir: dir}
	if err := reg.Reload(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Reload re-reads the recipe directory.
func (reg *Registry) Reload() error {
	entries, err := os.ReadDir(reg.dir)
	if err != nil {
		return err
	}

	recipes := map[string]Recipe{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		r, err := Load(filepath.Join(reg.dir, e.Name()))
		if err != nil {
			return fmt.Errorf("recipe file %s: %w", e.Name(), err)
		}
		if _, dup := recipes[r.Name]; dup {
			return fmt.Errorf("recipe %s is defined twice (last in %s)", r.Name, e.Name())
		}
		recipes[r.Name] = r
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.recipes = recipes
	return nil
}

// Get returns the named recipe.
func (reg *Registry) Get(name string) (Recipe, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.recipes[name]
	return r, ok
}

// List returns all recipes, sorted by name.
func (reg *Registry) List() []Recipe {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]Recipe, 0, len(reg.recipes))
	for _, r := range reg.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Watch reloads the catalog whenever the recipe directory changes,
// until ctx is done. A failed reload is logged and the previous
// catalog stays in effect.
func (reg *Registry) Watch(ctx context.Context, logger *log.Logger) error {
	for {
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, reg.dir)
		if err != nil {
			return err
		}
		<-wctx.Done()
		cancel()

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := reg.Reload(); err != nil {
			logger.Printf("recipe reload failed, keeping previous catalog: %s", err)
		} else {
			logger.Printf("recipe catalog reloaded from %s", reg.dir)
		}
	}
}
