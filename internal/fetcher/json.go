// Package fetcher loads raw datasets from disk.
package fetcher

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// LoadJSON reads a file and parses it into a generic JSON value. Shape
// validation happens downstream in the flattener; this only rejects files
// that are not JSON at all.
func LoadJSON(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", path)
	}
	return ParseJSON(data)
}

// ParseJSON parses raw bytes into a generic JSON value.
func ParseJSON(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "fetcher: parse json")
	}
	return raw, nil
}
