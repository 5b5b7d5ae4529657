// Package seeders holds the seed functions run by `sweetshop seed`.
//
// Each seeder registers itself from init():
//
//	func init() { seeders.Register("admin", SeedAdmin) }
//
// Seeders must be idempotent; `sweetshop seed` may run on every deploy.
package seeders

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc seeds one slice of reference data.
type SeederFunc func(db *gorm.DB) error

var (
	regMu sync.Mutex
	names []string
	funcs = map[string]SeederFunc{}
)

// Register adds a named seeder. Registration order is execution order.
func Register(name string, fn SeederFunc) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := funcs[name]; !dup {
		names = append(names, name)
	}
	funcs[name] = fn
}

// RunAll executes the registered seeders in order, stopping at the first
// failure.
func RunAll(db *gorm.DB) error {
	regMu.Lock()
	order := append([]string(nil), names...)
	regMu.Unlock()

	if len(order) == 0 {
		fmt.Println("  no seeders registered")
		return nil
	}

	for _, name := range order {
		fmt.Printf("  seeding %s ... ", name)
		if err := funcs[name](db); err != nil {
			fmt.Println("FAILED")
			return fmt.Errorf("seeder %q: %w", name, err)
		}
		fmt.Println("ok")
	}
	fmt.Printf("  %d seeder(s) complete\n", len(order))
	return nil
}
