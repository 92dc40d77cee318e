package llm

import (
	"fmt"
	"strings"

	"chat_agent/src/model"

	"github.com/bytedance/sonic"
)

// ExtractObject locates the single JSON object embedded anywhere in raw model
// text and decodes it. The candidate span runs greedily from the first '{' to
// the last '}', which tolerates explanatory prose the model may emit before or
// after the JSON. With no brace pair the full text is tried as-is. Decode
// failure is a MalformedResponseError: fatal to the turn, not the process.
func ExtractObject(stage, raw string) (map[string]any, error) {
	candidate := raw
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		candidate = raw[start : end+1]
	}

	var parsed map[string]any
	if err := sonic.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, &model.MalformedResponseError{Stage: stage, Raw: raw, Err: err}
	}

	return parsed, nil
}

// StringField pulls a required string key out of a decoded response object.
func StringField(stage, raw string, obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok {
		return "", missingKey(stage, raw, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(stage, raw, key, "string")
	}
	return s, nil
}

// FloatField pulls a required numeric key out of a decoded response object.
func FloatField(stage, raw string, obj map[string]any, key string) (float64, error) {
	v, ok := obj[key]
	if !ok {
		return 0, missingKey(stage, raw, key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, wrongType(stage, raw, key, "number")
	}
	return f, nil
}

// StringListField pulls a required sequence-of-strings key out of a decoded
// response object. Non-string elements are stringified rather than rejected.
func StringListField(stage, raw string, obj map[string]any, key string) ([]string, error) {
	v, ok := obj[key]
	if !ok {
		return nil, missingKey(stage, raw, key)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, wrongType(stage, raw, key, "array")
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(item))
		}
	}
	return out, nil
}

func missingKey(stage, raw, key string) error {
	return &model.MalformedResponseError{
		Stage: stage,
		Raw:   raw,
		Err:   fmt.Errorf("missing expected key %q", key),
	}
}

func wrongType(stage, raw, key, want string) error {
	return &model.MalformedResponseError{
		Stage: stage,
		Raw:   raw,
		Err:   fmt.Errorf("key %q is not a %s", key, want),
	}
}
