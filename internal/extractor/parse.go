package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"call-analysis-go/internal/apperrors"
	"call-analysis-go/internal/types"
)

// Parse decodes the completion text into the three extraction slots.
//
// The text must be a single JSON object holding all three slot keys; anything
// else is a MalformedExtraction error carrying the raw text. There is no
// partial result and no attempt to repair the output (code fences, trailing
// prose). A null value becomes the empty string; other non-string values are
// kept as their literal JSON text.
func Parse(raw string) (types.ExtractedFields, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return types.ExtractedFields{}, apperrors.MalformedExtraction(raw, fmt.Errorf("decode completion: %w", err))
	}
	if obj == nil {
		return types.ExtractedFields{}, apperrors.MalformedExtraction(raw, errors.New("completion is null"))
	}

	values := make(map[string]string, len(slots))
	var missing []string
	for _, slot := range slots {
		v, ok := obj[slot]
		if !ok {
			missing = append(missing, slot)
			continue
		}
		values[slot] = slotText(v)
	}
	if len(missing) > 0 {
		return types.ExtractedFields{}, apperrors.MalformedExtraction(raw,
			fmt.Errorf("missing fields: %s", strings.Join(missing, ", ")))
	}

	return types.ExtractedFields{
		CustomerName:         values[SlotCustomerName],
		GeographicalLocation: values[SlotGeographicalLocation],
		ProductOfInterest:    values[SlotProductOfInterest],
	}, nil
}

func slotText(v json.RawMessage) string {
	// null leaves s empty without error.
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	trimmed := bytes.TrimSpace(v)
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
