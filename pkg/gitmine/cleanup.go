package gitmine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CleanResidual scans the system temporary directory for leftover clone
// directories tagged with CloneTagPrefix — left behind when a process was
// killed mid-scope — and removes them. It is idempotent, silent when
// nothing is found, and returns removal failures as warnings rather than a
// hard error: a permission problem on one leftover directory should never
// block the others from being swept. removed counts only the directories
// it successfully deleted.
func CleanResidual() (removed int, warnings []string) {
	root := os.TempDir()
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, []string{fmt.Sprintf("reading temp directory %s: %v", root, err)}
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), CloneTagPrefix) {
			continue
		}
		path := filepath.Join(root, entry.Name())
		clearReadOnly(path)
		if err := os.RemoveAll(path); err != nil {
			warnings = append(warnings, fmt.Sprintf("removing %s: %v", path, err))
			continue
		}
		removed++
	}
	return removed, warnings
}
