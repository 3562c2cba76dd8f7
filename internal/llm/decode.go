package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"pathways-backend/internal/shared/metrics"
)

// Decode methods, in the order they are attempted.
const (
	DecodeStrict   = "strict"
	DecodeFenced   = "fenced"
	DecodeRepaired = "repaired"
	DecodeFallback = "fallback"
)

// ErrUnparseable is returned by DecodeInto when no strategy yields valid JSON.
var ErrUnparseable = errors.New("llm output parse: not valid JSON")

// DecodeInto decodes an LLM response into out. It tries the raw text, then
// the contents of a markdown code fence or the outermost JSON braces, then a
// repaired version of either. It returns the method that succeeded.
func DecodeInto(raw string, out any) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", ErrUnparseable
	}
	if err := unmarshalStrict(text, out); err == nil {
		metrics.IncLLMJSONDecode(DecodeStrict)
		return DecodeStrict, nil
	}
	candidate := extractJSON(text)
	if candidate != "" && candidate != text {
		if err := unmarshalStrict(candidate, out); err == nil {
			metrics.IncLLMJSONDecode(DecodeFenced)
			return DecodeFenced, nil
		}
	}
	if candidate == "" {
		candidate = text
	}
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err == nil {
		if err := unmarshalStrict(repaired, out); err == nil {
			metrics.IncLLMJSONDecode(DecodeRepaired)
			return DecodeRepaired, nil
		}
	}
	return "", ErrUnparseable
}

// DecodeJSON decodes an LLM response that is expected to be JSON. Text that
// cannot be read as JSON is wrapped as {"response": raw} instead of failing.
func DecodeJSON(raw string) (any, string) {
	var out any
	method, err := DecodeInto(raw, &out)
	if err != nil || !isStructured(out) {
		metrics.IncLLMJSONDecode(DecodeFallback)
		return map[string]any{"response": strings.TrimSpace(raw)}, DecodeFallback
	}
	return out, method
}

func unmarshalStrict(text string, out any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	return nil
}

func isStructured(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

// extractJSON returns the body of the first ``` fence, or the span between
// the first opening and last closing brace or bracket.
func extractJSON(text string) string {
	if start := strings.Index(text, "```"); start >= 0 {
		rest := text[start+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			rest = rest[nl+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	open := strings.IndexAny(text, "{[")
	if open < 0 {
		return ""
	}
	closer := "}"
	if text[open] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(text, closer)
	if end <= open {
		return ""
	}
	return text[open : end+1]
}
