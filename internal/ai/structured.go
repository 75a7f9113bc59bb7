package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	appErrors "github.com/unclebandit/outreach-backend/internal/errors"
)

const structuredSystemPrompt = `You must output only valid, stringified JSON and nothing else.
Do not include markdown formatting such as ` + "```json" + ` fences, explanations, or commentary.
Match this exact JSON structure:

`

// StructuredSystemPrompt embeds the shape description after the JSON-only requirement.
func StructuredSystemPrompt(shapeDescription string) string {
	return structuredSystemPrompt + strings.TrimSpace(shapeDescription)
}

// StripCodeFence removes a surrounding markdown code fence, with or without a language tag.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "```"), "json")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// DecodeStructured parses raw model output into T. Every key in required must be present and non-null.
func DecodeStructured[T any](raw string, required ...string) (T, error) {
	var out T
	clean := StripCodeFence(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &fields); err != nil {
		return out, appErrors.NewMalformedModelOutput(raw, err)
	}
	for _, key := range required {
		v, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return out, appErrors.NewMalformedModelOutput(raw, fmt.Errorf("missing required field %q", key))
		}
	}
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return out, appErrors.NewMalformedModelOutput(raw, err)
	}
	return out, nil
}

// CompleteStructured asks for JSON matching shapeDescription and decodes it into T.
func CompleteStructured[T any](ctx context.Context, c Completer, userPrompt, shapeDescription string, required ...string) (T, error) {
	raw, err := c.Complete(ctx, StructuredSystemPrompt(shapeDescription), userPrompt)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeStructured[T](raw, required...)
}
