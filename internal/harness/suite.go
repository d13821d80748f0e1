package harness

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DirNotFoundError is returned when a scenario directory does not exist.
type DirNotFoundError struct {
	Dir string
}

func (e *DirNotFoundError) Error() string {
	return fmt.Sprintf("scenario directory not found: %s", e.Dir)
}

// FindScenarios walks dir and returns scenario files in lexical order.
// A non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &DirNotFoundError{Dir: dir}
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsScenarioFile(path) {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(d.Name(), filepath.Ext(path))
			if ok, _ := filepath.Match(filter, name); !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	return files, nil
}

// ValidationResult summarizes loading every scenario in a directory.
type ValidationResult struct {
	Total    int           `json:"total"`
	Valid    int           `json:"valid"`
	Invalid  int           `json:"invalid"`
	Failures []FileFailure `json:"failures,omitempty"`
}

// FileFailure is one scenario file that failed.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ValidateDir loads and validates every scenario under dir without running
// any of them.
func ValidateDir(dir string) (*ValidationResult, error) {
	files, err := FindScenarios(dir, "")
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{Total: len(files)}
	for _, path := range files {
		if _, err := LoadScenario(path); err != nil {
			result.Invalid++
			result.Failures = append(result.Failures, FileFailure{Path: path, Error: err.Error()})
			continue
		}
		result.Valid++
	}
	return result, nil
}
