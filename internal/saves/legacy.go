package saves

import "encoding/json"

// Edge publications changed shape at some point: old saves store them as a
// flat array of publication ids, current ones as a map keyed by knowledge
// level. There is no schema version on the payload, so the shape itself is
// sniffed and flat arrays are lifted into the map form under "unknown".
const legacyKnowledgeLevel = "unknown"

// NormalizeSaveData rewrites legacy publication arrays inside a saved result
// payload. Payloads that fail to parse, or that already use the map form,
// come back unchanged.
func NormalizeSaveData(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return raw
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return raw
	}

	if !normalizeValue(&payload) {
		return raw
	}

	out, err := json.Marshal(payload)
	if err != nil {
		return raw
	}
	return out
}

// normalizeValue walks the decoded payload and reports whether anything was
// rewritten.
func normalizeValue(v *any) bool {
	changed := false
	switch value := (*v).(type) {
	case map[string]any:
		for key, child := range value {
			if key == "publications" {
				if ids, ok := legacyPublicationList(child); ok {
					value[key] = map[string]any{legacyKnowledgeLevel: ids}
					changed = true
					continue
				}
			}
			if normalizeValue(&child) {
				value[key] = child
				changed = true
			}
		}
	case []any:
		for i := range value {
			if normalizeValue(&value[i]) {
				changed = true
			}
		}
	}
	return changed
}

// legacyPublicationList reports whether the value is a flat list of
// publication id strings.
func legacyPublicationList(v any) ([]any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	for _, item := range list {
		if _, ok := item.(string); !ok {
			return nil, false
		}
	}
	return list, true
}
