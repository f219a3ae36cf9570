package tools

import "encoding/json"

// stringParam returns params[key] as a string, or "" when absent/mistyped
func stringParam(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

// mapParam returns params[key] as an object, or nil when absent/mistyped
func mapParam(params map[string]any, key string) map[string]any {
	m, _ := params[key].(map[string]any)
	return m
}

// stringMapParam returns params[key] as a string-to-string object, dropping
// non-string values
func stringMapParam(params map[string]any, key string) map[string]string {
	raw, _ := params[key].(map[string]any)
	if raw == nil {
		return nil
	}
	m := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			m[k] = s
		}
	}
	return m
}

// formatJSON renders a tool result for the LLM
func formatJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "null"
	}
	return string(data)
}
