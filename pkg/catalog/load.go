package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/agentstation/intentmap/pkg/constants"
	"github.com/agentstation/intentmap/pkg/errors"
)

// Load reads a catalog snapshot from a JSON file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}

	return &c, nil
}

// Save writes the catalog snapshot and its warnings sidecar next to it.
// A collisions sidecar is written only when collisions is non-empty.
func Save(c *Catalog, path string, collisions []Collision) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	if err := writeJSON(path, c); err != nil {
		return err
	}

	warningsPath := filepath.Join(dir, "catalog.warnings.json")
	if err := writeJSON(warningsPath, c.Warnings); err != nil {
		return err
	}

	if len(collisions) > 0 {
		collisionsPath := filepath.Join(dir, "catalog.collisions.json")
		if err := writeJSON(collisionsPath, collisions); err != nil {
			return err
		}
	}

	return nil
}

// writeJSON marshals v with two-space indentation and a trailing newline.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
