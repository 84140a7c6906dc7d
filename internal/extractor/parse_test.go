package extractor

import (
	"errors"
	"strings"
	"testing"

	"call-analysis-go/internal/apperrors"
	"call-analysis-go/internal/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    types.ExtractedFields
		wantErr string
	}{
		{
			name: "all fields",
			raw:  `{"CustomerName":"Jane","GeographicalLocation":"Ohio","ProductOfInterest":"widgets"}`,
			want: types.ExtractedFields{CustomerName: "Jane", GeographicalLocation: "Ohio", ProductOfInterest: "widgets"},
		},
		{
			name: "pretty printed with surrounding whitespace and extra key",
			raw:  "\n{\n  \"CustomerName\": \"Ana\",\n  \"GeographicalLocation\": \"Madrid\",\n  \"ProductOfInterest\": \"\",\n  \"Notes\": \"x\"\n}\n",
			want: types.ExtractedFields{CustomerName: "Ana", GeographicalLocation: "Madrid"},
		},
		{
			name: "null and number are not coerced",
			raw:  `{"CustomerName":null,"GeographicalLocation":90210,"ProductOfInterest":["a", "b"]}`,
			want: types.ExtractedFields{GeographicalLocation: "90210", ProductOfInterest: `["a","b"]`},
		},
		{
			name:    "missing one key",
			raw:     `{"CustomerName":"Jane","GeographicalLocation":"Ohio"}`,
			wantErr: "ProductOfInterest",
		},
		{
			name:    "wrong case key",
			raw:     `{"customerName":"Jane","GeographicalLocation":"Ohio","ProductOfInterest":"widgets"}`,
			wantErr: "CustomerName",
		},
		{name: "not json", raw: "The customer is Jane from Ohio.", wantErr: "decode"},
		{name: "fenced json", raw: "```json\n{\"CustomerName\":\"Jane\",\"GeographicalLocation\":\"Ohio\",\"ProductOfInterest\":\"w\"}\n```", wantErr: "decode"},
		{name: "array", raw: `[{"CustomerName":"Jane"}]`, wantErr: "decode"},
		{name: "null document", raw: "null", wantErr: "null"},
		{name: "empty", raw: "", wantErr: "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.want {
					t.Errorf("got %+v, want %+v", got, tt.want)
				}
				return
			}

			var appErr *apperrors.Error
			if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindMalformedExtraction {
				t.Fatalf("expected MalformedExtraction, got %v", err)
			}
			if appErr.Raw != tt.raw {
				t.Errorf("raw response not attached: %q", appErr.Raw)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if got != (types.ExtractedFields{}) {
				t.Errorf("partial result returned: %+v", got)
			}
		})
	}
}
