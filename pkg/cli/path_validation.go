// Package cli validates operator-supplied command line inputs
package cli

import (
	"errors"
	"fmt"
	"strings"
)

// ValidatePath checks a probe path supplied on the command line. Paths from
// the config file go through config validation; this covers the -paths
// override, which bypasses it.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path %q must start with '/'", path)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("path %q must not contain '..'", path)
	}
	if strings.ContainsAny(path, " \t") {
		return fmt.Errorf("path %q must not contain whitespace", path)
	}
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("path %q contains control characters", path)
		}
	}
	return nil
}

// ValidatePaths validates every entry and reports the first problem found
func ValidatePaths(paths []string) error {
	if len(paths) == 0 {
		return errors.New("no probe paths given")
	}
	for _, p := range paths {
		if err := ValidatePath(p); err != nil {
			return err
		}
	}
	return nil
}
