package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/animetoken/anime-token-backend/pkg/migrate"
)

func TestCollectionsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_collections.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no collections migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS collections",
		"FOREIGN KEY (creator_id) REFERENCES users(id) ON DELETE CASCADE",
		"CHECK (royalty_percent >= 0 AND royalty_percent <= 50)",
		"CHECK (supply_mode <> 'open' OR max_supply = 0)",
		"collection_mint_address text UNIQUE",
		"DROP TABLE IF EXISTS collections",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestDraftsMigrationEnforcesSingleDraftPerKind(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_drafts.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no drafts migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_drafts_owner_kind ON drafts (owner_id, kind)",
		"payload jsonb NOT NULL DEFAULT '{}'",
		"DROP TABLE IF EXISTS drafts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
