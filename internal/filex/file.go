package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppDirName is the directory, under the user config dir, holding client state.
const AppDirName = "ecosync"

// DefaultDataFile returns <user config dir>/ecosync/<name>. When the user
// config dir cannot be determined the bare name is returned, which resolves
// against the working directory.
func DefaultDataFile(name string) string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return name
	}
	return filepath.Join(base, AppDirName, name)
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}
