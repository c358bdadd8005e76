// Package setup handles packline data-directory initialization.
package setup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/packhouse/packline/internal/model"
	yamlutil "github.com/packhouse/packline/internal/yaml"
)

// DefaultDirName is the data directory created under the working
// directory when --data is not given.
const DefaultDirName = ".packline"

// Run scaffolds a packline data directory: config with a starter catalog,
// empty data files with schema headers, and the locks directory.
func Run(dir, projectName string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	if _, err := os.Stat(filepath.Join(absDir, "packline.yaml")); err == nil {
		return fmt.Errorf("%s is already initialized", absDir)
	}

	for _, d := range []string{absDir, filepath.Join(absDir, "locks")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}

	if projectName == "" {
		projectName = filepath.Base(filepath.Dir(absDir))
	}

	cfg := struct {
		yamlutil.SchemaHeader `yaml:",inline"`
		model.Config          `yaml:",inline"`
	}{
		SchemaHeader: yamlutil.NewHeader(yamlutil.FileTypeConfig),
		Config: model.Config{
			Project: model.ProjectConfig{
				Name:    projectName,
				Created: time.Now().UTC().Format(time.RFC3339),
			},
			Board:   model.BoardConfig{LowStockThreshold: model.DefaultLowStockThreshold},
			Logging: model.LoggingConfig{Level: "info"},
		},
	}
	if err := yamlutil.AtomicWrite(filepath.Join(absDir, "packline.yaml"), cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	skeletons := map[string]any{
		"inventory.yaml": map[string]any{
			"schema_version": yamlutil.CurrentSchemaVersion,
			"file_type":      yamlutil.FileTypeInventory,
			"levels":         map[string]any{},
		},
		"orders.yaml": map[string]any{
			"schema_version": yamlutil.CurrentSchemaVersion,
			"file_type":      yamlutil.FileTypeOrders,
			"orders":         []any{},
		},
		"task_state.yaml": map[string]any{
			"schema_version": yamlutil.CurrentSchemaVersion,
			"file_type":      yamlutil.FileTypeTaskState,
			"states":         []any{},
		},
		"notes.yaml": map[string]any{
			"schema_version": yamlutil.CurrentSchemaVersion,
			"file_type":      yamlutil.FileTypeNotes,
			"notes":          map[string]any{},
		},
		"containers.yaml": map[string]any{
			"schema_version": yamlutil.CurrentSchemaVersion,
			"file_type":      yamlutil.FileTypeContainers,
			"containers":     []any{},
		},
	}
	for name, data := range skeletons {
		if err := yamlutil.AtomicWrite(filepath.Join(absDir, name), data); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return nil
}
