package database

import (
	"io/fs"
	"strings"
	"testing"
)

// 埋め込みマイグレーションのupとdownが対になっていることを検証
func TestMigrationsFS_UpDownPairs(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no migration files embedded")
	}

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file name: %s", name)
		}
	}

	for base := range ups {
		if !downs[base] {
			t.Errorf("missing down migration for %s", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("missing up migration for %s", base)
		}
	}
}

// member・term・term_linkテーブルのマイグレーションが含まれることを検証
func TestMigrationsFS_ContainsCoreTables(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"migrations/000001_create_member.up.sql", "CREATE TABLE"},
		{"migrations/000002_create_term.up.sql", "CREATE TABLE"},
		{"migrations/000003_create_term_link.up.sql", "CREATE TABLE"},
	}

	for _, tt := range tests {
		data, err := fs.ReadFile(migrationsFS, tt.file)
		if err != nil {
			t.Errorf("failed to read %s: %v", tt.file, err)
			continue
		}
		if !strings.Contains(string(data), tt.want) {
			t.Errorf("%s does not contain %q", tt.file, tt.want)
		}
	}
}
