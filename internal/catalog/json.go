package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hyperestate/aqari/internal/models"
)

// LoadJSON reads a catalog file containing either a bare JSON array of
// properties or an object with a "properties" key. File order becomes
// catalog order.
func LoadJSON(path string) ([]models.Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var properties []models.Property
	if err := json.Unmarshal(data, &properties); err == nil {
		return properties, nil
	}

	var wrapped struct {
		Properties []models.Property `json:"properties"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return wrapped.Properties, nil
}
