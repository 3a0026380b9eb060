package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateDirShipped(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir(migrations) error = %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "001_bad.sql")
	if err := os.WriteFile(path, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("ValidateDir accepted short version prefix")
	}
}

func TestValidateDirRejectsMissingDown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "20260810090000_only_up.sql")
	if err := os.WriteFile(path, []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("ValidateDir accepted migration without Down section")
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Loyalty Points!")
	if err != nil {
		t.Fatalf("CreateSQLMigration() error = %v", err)
	}
	if filepath.Ext(path) != ".sql" {
		t.Errorf("unexpected extension: %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Errorf("generated migration fails validation: %v", err)
	}
}
