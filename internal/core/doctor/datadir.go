package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DataDirCheck verifies the data directory exists and is writable.
type DataDirCheck struct {
	dataDir string
}

// NewDataDirCheck creates a new data directory check.
func NewDataDirCheck(dataDir string) *DataDirCheck {
	return &DataDirCheck{dataDir: dataDir}
}

func (c *DataDirCheck) Name() string {
	return "Data Directory"
}

func (c *DataDirCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	info, err := os.Stat(c.dataDir)
	switch {
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:   c.dataDir,
			Status:  StatusWarn,
			Detail:  "does not exist (created on first save)",
			Fixable: true,
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  c.dataDir,
			Status: StatusFail,
			Detail: fmt.Sprintf("inaccessible: %v", err),
		})
		return result
	case !info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  c.dataDir,
			Status: StatusFail,
			Detail: "path is not a directory",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  c.dataDir,
		Status: StatusPass,
	})

	// Probe writability the way the session store writes: temp file then
	// remove.
	probe := filepath.Join(c.dataDir, ".doctor-probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "writable",
			Status: StatusFail,
			Detail: fmt.Sprintf("cannot write: %v", err),
		})
		return result
	}
	_ = os.Remove(probe)

	result.Items = append(result.Items, CheckItem{
		Label:  "writable",
		Status: StatusPass,
	})

	sessions := filepath.Join(c.dataDir, "sessions")
	if entries, err := os.ReadDir(sessions); err == nil {
		count := 0
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
				count++
			}
		}
		result.Items = append(result.Items, CheckItem{
			Label:  "sessions",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d stored", count),
		})
	}

	return result
}

// Fix creates the data directory. Only meaningful when the check reported
// the directory missing.
func (c *DataDirCheck) Fix() error {
	return os.MkdirAll(c.dataDir, 0o755)
}
