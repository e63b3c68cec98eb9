package render

import (
	"encoding/json"
	"html"
	"strconv"
)

// ExtractValue normalizes a heterogeneous content field to a display
// string. Fields arrive either wrapped (a map carrying the real value
// under "value" plus metadata we ignore), as a bare string, or as a bare
// number. Anything else yields "" — callers treat that as "skip the
// field", never as an error.
//
// HTML entities are decoded before return: upstream content is
// entity-escaped text that has to render as plain prose.
func ExtractValue(field any) string {
	var value string

	switch v := field.(type) {
	case map[string]any:
		value = scalarString(v["value"])
	default:
		value = scalarString(field)
	}

	if value == "" {
		return ""
	}
	return html.UnescapeString(value)
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return ""
}
