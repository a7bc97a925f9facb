package render

import (
	"encoding/json"
	"strconv"
)

// Fields maps placeholder names to substitution values.
type Fields map[string]string

// Record is invoice data flattened for substitution: scalar fields plus the
// list fields a repeated block can iterate over.
type Record struct {
	Fields Fields
	Lists  map[string][]Fields
}

// RecordFromMap flattens decoded JSON. Strings are kept verbatim, numbers use
// their shortest decimal form, booleans become "true"/"false". Nulls and nested
// objects are dropped. Arrays become lists; a non-object element becomes an
// empty row so row counts are preserved.
func RecordFromMap(data map[string]any) Record {
	rec := Record{Fields: Fields{}, Lists: map[string][]Fields{}}
	for key, value := range data {
		if list, ok := value.([]any); ok {
			rows := make([]Fields, 0, len(list))
			for _, entry := range list {
				row := Fields{}
				if obj, ok := entry.(map[string]any); ok {
					for k, v := range obj {
						if s, ok := scalarString(v); ok {
							row[k] = s
						}
					}
				}
				rows = append(rows, row)
			}
			rec.Lists[key] = rows
			continue
		}
		if s, ok := scalarString(value); ok {
			rec.Fields[key] = s
		}
	}
	return rec
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// Clone deep copies the record so callers cannot mutate cached state.
func (r Record) Clone() Record {
	out := Record{
		Fields: make(Fields, len(r.Fields)),
		Lists:  make(map[string][]Fields, len(r.Lists)),
	}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	for name, rows := range r.Lists {
		copied := make([]Fields, len(rows))
		for i, row := range rows {
			c := make(Fields, len(row))
			for k, v := range row {
				c[k] = v
			}
			copied[i] = c
		}
		out.Lists[name] = copied
	}
	return out
}

// MarshalJSON emits the record in the same shape clients submit it.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+len(r.Lists))
	for k, v := range r.Fields {
		out[k] = v
	}
	for k, rows := range r.Lists {
		out[k] = rows
	}
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = RecordFromMap(raw)
	return nil
}
