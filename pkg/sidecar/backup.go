package sidecar

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultKeepBackups is how many timestamped backups survive a cleanup.
const DefaultKeepBackups = 5

const backupStamp = "20060102-150405"

// writeBackup copies the current sidecar aside as <path>.<stamp>.bak.
func writeBackup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%s.%s.bak", path, time.Now().Format(backupStamp))
	return os.WriteFile(name, data, 0o644)
}

// listBackups returns the backup files for a sidecar path, oldest first.
// The timestamp format sorts lexically, so name order is age order.
func listBackups(path string) ([]string, error) {
	matches, err := filepath.Glob(path + ".*.bak")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// CleanupBackups deletes the oldest backups of a sidecar, keeping the most
// recent `keep`. It returns the number of files removed.
func CleanupBackups(path string, keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	backups, err := listBackups(path)
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}
	removed := 0
	for _, name := range backups[:len(backups)-keep] {
		if err := os.Remove(name); err != nil {
			return removed, fmt.Errorf("remove backup %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}
