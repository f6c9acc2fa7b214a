package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agbru/seqtable/internal/orchestration"
)

// WriteTablesToFile writes the same markdown as stdout to path, creating
// parent directories as needed. An empty path is a no-op.
func WriteTablesToFile(path string, results []orchestration.TableResult) (err error) {
	if path == "" {
		return nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := orchestration.WriteTables(file, results); err != nil {
		return fmt.Errorf("failed to write tables: %w", err)
	}
	return nil
}

// PrintSaved reports on the status stream where the tables were saved.
func PrintSaved(out io.Writer, path string) {
	fmt.Fprintf(out, "%s✓ Tables saved to: %s%s%s\n", ColorGreen(), ColorCyan(), path, ColorReset())
}
