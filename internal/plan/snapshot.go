package plan

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hbarrett/planwright/internal/errors"
)

// snapshotPrefix and snapshotTimeFormat define the on-disk naming for
// plan snapshots: plan_20060102_150405.json.
const (
	snapshotPrefix     = "plan_"
	snapshotTimeFormat = "20060102_150405"
	snapshotExt        = ".json"
)

// SnapshotName returns the snapshot filename for the given timestamp.
func SnapshotName(t time.Time) string {
	return snapshotPrefix + t.Format(snapshotTimeFormat) + snapshotExt
}

// SaveSnapshot writes the plan to dir as a timestamped JSON snapshot
// and returns the full path of the file written. The directory is
// created if needed.
func SaveSnapshot(p *Plan, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create plan directory")
	}

	data, err := p.MarshalIndent()
	if err != nil {
		return "", errors.Wrap(err, "encode plan snapshot")
	}

	path := filepath.Join(dir, SnapshotName(time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "write plan snapshot")
	}
	return path, nil
}

// LoadSnapshot reads and decodes a single plan snapshot file.
func LoadSnapshot(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPlanError(path, errors.ErrPlanNotFound)
		}
		return nil, errors.Wrap(err, "read plan snapshot")
	}
	return DecodePlan(data)
}

// LatestSnapshotPath returns the path of the most recent snapshot in
// dir, judged by file modification time. Returns ErrPlanNotFound when
// the directory has no snapshots.
func LatestSnapshotPath(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewPlanError(dir, errors.ErrPlanNotFound)
		}
		return "", errors.Wrap(err, "read plan directory")
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = name
			newestMod = info.ModTime()
		}
	}

	if newest == "" {
		return "", errors.NewPlanError(dir, errors.ErrPlanNotFound)
	}
	return filepath.Join(dir, newest), nil
}

// LoadLatestSnapshot loads the most recent plan snapshot from dir.
func LoadLatestSnapshot(dir string) (*Plan, error) {
	path, err := LatestSnapshotPath(dir)
	if err != nil {
		return nil, err
	}
	return LoadSnapshot(path)
}
