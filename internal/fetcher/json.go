package fetcher

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ReadJSON reads a JSON array of flat objects into a Table. The header is
// the sorted union of object keys. Arrays become ";"-joined strings and
// nested objects are dropped.
func ReadJSON(ctx context.Context, r io.Reader) (*Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return EmptyTable(), nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "json: read opening token")
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, eris.Errorf("json: expected '[', got %v", tok)
	}

	var objects []map[string]string
	keys := make(map[string]struct{})
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "json: context cancelled")
		}
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, eris.Wrap(err, "json: decode element")
		}
		flat := make(map[string]string, len(obj))
		for k, v := range obj {
			if s, ok := jsonCell(v); ok {
				flat[k] = s
				keys[k] = struct{}{}
			}
		}
		objects = append(objects, flat)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return nil, eris.Wrap(err, "json: read closing token")
	}

	return tableFromMaps(keys, objects), nil
}

func jsonCell(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", true
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := jsonCell(item); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ";"), true
	default:
		return "", false
	}
}

func tableFromMaps(keys map[string]struct{}, records []map[string]string) *Table {
	header := make([]string, 0, len(keys))
	for k := range keys {
		header = append(header, k)
	}
	sort.Strings(header)

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(header))
		for j, col := range header {
			row[j] = rec[col]
		}
		rows[i] = row
	}
	return NewTable(header, rows)
}
