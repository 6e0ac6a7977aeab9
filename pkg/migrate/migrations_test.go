package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestCompaniesMigrationCreatesCategoryIndex(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}

	var found bool
	for _, e := range entries {
		if !strings.Contains(e.Name(), "create_companies") {
			continue
		}
		found = true
		b, err := os.ReadFile(filepath.Join("migrations", e.Name()))
		if err != nil {
			t.Fatalf("read migration: %v", err)
		}
		if !strings.Contains(string(b), "idx_companies_category") {
			t.Fatal("companies migration must index category; category-scoped deletes depend on it")
		}
	}
	if !found {
		t.Fatal("create_companies migration not found")
	}
}
