package agentrt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fleetcron.dev/fleetcron/internal/ids"
	"fleetcron.dev/fleetcron/internal/model"
)

// loadCache reads and parses the local task spec cache. It is the agent's
// offline-bootstrap source when the controller is unreachable at startup.
func loadCache(path string) (map[ids.TaskID]model.TaskSpec, error) {
	if path == "" {
		return nil, fmt.Errorf("agentrt: no task cache path configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var specs map[ids.TaskID]model.TaskSpec
	if err := json.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("agentrt: parse task cache %q: %w", path, err)
	}
	return specs, nil
}

// saveCache atomically overwrites the local task spec cache using a
// temp-file-then-rename, mirroring the persistence idiom used elsewhere in
// this codebase for crash-safe writes.
func saveCache(path string, specs map[ids.TaskID]model.TaskSpec) error {
	if path == "" {
		return fmt.Errorf("agentrt: no task cache path configured")
	}

	data, err := json.MarshalIndent(specs, "", "  ")
	if err != nil {
		return fmt.Errorf("agentrt: marshal task cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("agentrt: create cache directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".taskcache.*.tmp")
	if err != nil {
		return fmt.Errorf("agentrt: create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("agentrt: write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("agentrt: close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("agentrt: rename temp cache file to %q: %w", path, err)
	}
	return nil
}
