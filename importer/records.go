// ABOUTME: Reads import batches from JSON arrays or JSON Lines
// ABOUTME: Splits each element into an entity kind and its raw JSON payload
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
)

// Record is one element of an import batch.
type Record struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// ReadRecords reads either a JSON array or a stream of JSON values (JSON
// Lines). An element shaped {"kind": ..., "data": {...}} carries its own
// kind; any other element is taken whole as a record of defaultKind.
func ReadRecords(r io.Reader, defaultKind string) ([]Record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var records []Record
	if trimmed[0] == '[' {
		if !gjson.ValidBytes(trimmed) {
			return nil, errors.New("failed to read records: malformed JSON array")
		}
		gjson.ParseBytes(trimmed).ForEach(func(_, elem gjson.Result) bool {
			records = append(records, split(elem, defaultKind))
			return true
		})
		return records, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	for line := 1; ; line++ {
		var elem json.RawMessage
		if err := dec.Decode(&elem); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record %d: %w", line, err)
		}
		records = append(records, split(gjson.ParseBytes(elem), defaultKind))
	}
	return records, nil
}

func split(elem gjson.Result, defaultKind string) Record {
	kind := elem.Get("kind")
	data := elem.Get("data")
	if elem.IsObject() && kind.Type == gjson.String && data.Exists() {
		return Record{Kind: kind.String(), Data: json.RawMessage(data.Raw)}
	}
	return Record{Kind: defaultKind, Data: json.RawMessage(elem.Raw)}
}
