package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/willardc/stocktrack-backend/pkg/migrate"
)

func TestInitialSchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_initial_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no initial schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS orders",
		"CREATE TABLE IF NOT EXISTS order_line_items",
		"CREATE TABLE IF NOT EXISTS supply_orders",
		"CREATE TABLE IF NOT EXISTS supply_line_items",
		"CREATE TABLE IF NOT EXISTS collections",
		"CREATE TABLE IF NOT EXISTS supplier_payments",
		"CREATE TABLE IF NOT EXISTS inventory_items",
		"FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE",
		"FOREIGN KEY (supply_order_id) REFERENCES supply_orders(id) ON DELETE CASCADE",
		"CHECK (quantity_delivered <= quantity)",
		"CHECK (quantity_received <= quantity)",
		"CHECK (amount > 0)",
		"DROP TABLE IF EXISTS orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateMigrationsDir(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}
