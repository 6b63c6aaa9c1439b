package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// BasicInfo is payload.basicInfo. Kept as a map so optional fields the
// front end adds are preserved; typed reads go through Field.
type BasicInfo map[string]any

// Field returns the trimmed string form of a field. Numbers are accepted
// because monthlyIncome is often sent unquoted.
func (b BasicInfo) Field(name string) string {
	switch v := b[name].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// FillBlanks applies incoming only to fields that are blank in b: a field
// that already has a value is never overwritten. b is not modified.
func (b BasicInfo) FillBlanks(incoming BasicInfo) BasicInfo {
	out := make(BasicInfo, len(b)+len(incoming))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range incoming {
		if isBlank(out[k]) && !isBlank(v) {
			out[k] = v
		}
	}
	return out
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}
