package yaml

import (
	"os"
	"path/filepath"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"
)

func TestAtomicWrite_Success(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")

	data := map[string]any{"file_type": FileTypeInventory, "schema_version": 1}
	if err := AtomicWrite(path, data); err != nil {
		t.Fatalf("AtomicWrite failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	var result map[string]any
	if err := yamlv3.Unmarshal(content, &result); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if result["file_type"] != FileTypeInventory {
		t.Errorf("file_type: got %v", result["file_type"])
	}
}

func TestAtomicWrite_CreatesBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.yaml")

	if err := AtomicWrite(path, map[string]string{"version": "1"}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := AtomicWrite(path, map[string]string{"version": "2"}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	bakContent, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("ReadFile .bak failed: %v", err)
	}
	var bakData map[string]string
	if err := yamlv3.Unmarshal(bakContent, &bakData); err != nil {
		t.Fatalf("Unmarshal .bak failed: %v", err)
	}
	if bakData["version"] != "1" {
		t.Errorf("backup version: got %q, want %q", bakData["version"], "1")
	}
}

func TestAtomicWriteRaw_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")

	invalidYAML := []byte(":\n  invalid: [\n    broken")
	if err := AtomicWriteRaw(path, invalidYAML); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should not exist after failed write")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, entry := range entries {
		t.Errorf("unexpected file remaining: %s", entry.Name())
	}
}

func TestRestoreFromBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "task_state.yaml")

	if err := AtomicWrite(path, map[string]string{"keep": "this"}); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if err := AtomicWrite(path, map[string]string{"then": "corrupt"}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(":\n  broken: ["), 0644); err != nil {
		t.Fatalf("corrupt write failed: %v", err)
	}

	if err := RestoreFromBackup(path); err != nil {
		t.Fatalf("RestoreFromBackup failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var data map[string]string
	if err := yamlv3.Unmarshal(content, &data); err != nil {
		t.Fatalf("restored file does not parse: %v", err)
	}
	if data["keep"] != "this" {
		t.Errorf("restored content: got %+v", data)
	}
}

func TestValidateSchemaHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")

	good := map[string]any{"schema_version": 1, "file_type": FileTypeInventory}
	if err := AtomicWrite(path, good); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := ValidateSchemaHeader(path, FileTypeInventory); err != nil {
		t.Errorf("valid header rejected: %v", err)
	}
	if err := ValidateSchemaHeader(path, FileTypeOrders); err == nil {
		t.Error("file_type mismatch not detected")
	}

	tests := []struct {
		name    string
		content string
	}{
		{"missing file_type", "schema_version: 1\n"},
		{"unknown file_type", "schema_version: 1\nfile_type: mystery\n"},
		{"future version", "schema_version: 99\nfile_type: inventory\n"},
		{"zero version", "schema_version: 0\nfile_type: inventory\n"},
	}
	for _, tt := range tests {
		if err := ValidateSchemaHeaderFromBytes([]byte(tt.content), ""); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}
