// Package source implements catalog.DataSource over local JSON files, HTTP
// endpoints and SQLite catalog files, plus a file watcher for hot reload.
package source

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thesavant42/exportatlas/internal/models"
	"github.com/tidwall/gjson"
)

// ErrMalformed is returned when the payload is not a JSON array of objects
var ErrMalformed = errors.New("malformed service list")

// Decode parses a services payload. The payload must be a JSON array whose
// elements are all objects; optional fields may be missing. A missing name
// decodes as "" and is not treated as an error.
func Decode(data []byte) ([]models.Service, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", ErrMalformed, root.Type)
	}

	var shapeErr error
	index := 0
	root.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			shapeErr = fmt.Errorf("%w: element %d is %s, not an object", ErrMalformed, index, value.Type)
			return false
		}
		if formats := value.Get("formats"); formats.Exists() && formats.Type != gjson.Null && !formats.IsArray() {
			shapeErr = fmt.Errorf("%w: element %d has non-array formats", ErrMalformed, index)
			return false
		}
		index++
		return true
	})
	if shapeErr != nil {
		return nil, shapeErr
	}

	var services []models.Service
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}
