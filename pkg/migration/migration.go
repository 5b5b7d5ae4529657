// Package migration tracks schema changes in batches, Laravel-style.
//
// Migrations register themselves by timestamped name so lexicographic order
// is chronological order:
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", migration.Migration{
//	        Up:   func(db *gorm.DB) error { return db.AutoMigrate(&models.User{}) },
//	        Down: func(db *gorm.DB) error { return db.Migrator().DropTable("users") },
//	    })
//	}
//
// `sweetshop migrate` applies pending ones, `migrate:rollback` reverses the
// latest batch, `migrate:status` prints the ledger. The server also applies
// pending migrations at boot.
package migration

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/sweetshop/pkg/logger"
)

// Migration pairs an apply step with its reversal.
type Migration struct {
	Up   func(db *gorm.DB) error
	Down func(db *gorm.DB) error
}

// ledgerRow records one applied migration and the batch it ran in.
type ledgerRow struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (ledgerRow) TableName() string { return "schema_migrations" }

var registry = map[string]Migration{}

// Register adds a migration under a timestamp-prefixed name.
func Register(name string, m Migration) {
	registry[name] = m
}

// Runner applies and reverses registered migrations against one database.
type Runner struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Runner {
	return &Runner{db: db}
}

// EnsureTable creates the ledger table when missing.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&ledgerRow{})
}

// Pending lists registered-but-unapplied migration names in order.
func (r *Runner) Pending() ([]string, error) {
	applied, err := r.appliedSet()
	if err != nil {
		return nil, err
	}
	var pending []string
	for name := range registry {
		if !applied[name] {
			pending = append(pending, name)
		}
	}
	sort.Strings(pending)
	return pending, nil
}

// Run applies every pending migration as one batch, recording each in the
// ledger as it lands.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure ledger: %w", err)
	}
	pending, err := r.Pending()
	if err != nil {
		return fmt.Errorf("migration: pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch := r.lastBatch() + 1
	for _, name := range pending {
		fmt.Printf("  Migrating: %s\n", name)
		if err := registry[name].Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", name, err)
		}
		if err := r.db.Create(&ledgerRow{Name: name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", name, err)
		}
		fmt.Printf("  Migrated:  %s\n", name)
	}
	logger.Info("migration: applied", "count", len(pending), "batch", batch)
	return nil
}

// Rollback reverses the most recent batch, newest migration first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure ledger: %w", err)
	}
	batch := r.lastBatch()
	if batch == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	var rows []ledgerRow
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&rows).Error; err != nil {
		return fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	for _, row := range rows {
		m, ok := registry[row.Name]
		if !ok {
			return fmt.Errorf("migration: %s applied but no longer registered", row.Name)
		}
		fmt.Printf("  Rolling back: %s\n", row.Name)
		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.Delete(&row).Error; err != nil {
			return fmt.Errorf("migration: unrecord %s: %w", row.Name, err)
		}
		fmt.Printf("  Rolled back:  %s\n", row.Name)
	}
	logger.Info("migration: rolled back", "count", len(rows), "batch", batch)
	return nil
}

// Status prints the ledger for every registered migration.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}
	var rows []ledgerRow
	if err := r.db.Find(&rows).Error; err != nil {
		return err
	}
	byName := make(map[string]ledgerRow, len(rows))
	for _, row := range rows {
		byName[row.Name] = row
	}

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tSTATUS\tBATCH")
	for _, name := range names {
		if row, ok := byName[name]; ok {
			fmt.Fprintf(tw, "%s\tran\t%d\n", name, row.Batch)
		} else {
			fmt.Fprintf(tw, "%s\tpending\t-\n", name)
		}
	}
	return tw.Flush()
}

func (r *Runner) lastBatch() int {
	var result struct{ Max int }
	r.db.Model(&ledgerRow{}).Select("MAX(batch) as max").Scan(&result)
	return result.Max
}

func (r *Runner) appliedSet() (map[string]bool, error) {
	var rows []ledgerRow
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(rows))
	for _, row := range rows {
		set[row.Name] = true
	}
	return set, nil
}
