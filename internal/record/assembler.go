// Package record shapes a transcript and its extraction into the persisted
// analysis record, including the partition key and record identifier.
package record

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"call-analysis-go/internal/types"
)

// IDScheme selects how record identifiers are generated.
type IDScheme string

const (
	// IDTimestamp is "<day>-<HH:MM:SS>". Two records assembled in the same
	// second of the same day collide.
	IDTimestamp IDScheme = "timestamp"
	// IDUUID is a random UUIDv4, unique across runs.
	IDUUID IDScheme = "uuid"
)

// monthNames holds full month names per locale. Partition keys are part of
// the stored data, so they must not depend on the host's locale settings.
var monthNames = map[string][12]string{
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	"es": {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	"fr": {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	"de": {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	"pt": {"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	"it": {"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
}

// SupportedLocale reports whether month names exist for locale.
func SupportedLocale(locale string) bool {
	_, ok := monthNames[locale]
	return ok
}

// Assembler builds AnalysisRecords. The zero value formats in English, in
// the timestamp's own location, with timestamp identifiers.
type Assembler struct {
	Locale   string
	Location *time.Location
	IDScheme IDScheme
}

// NewAssembler validates the locale, timezone name and scheme.
func NewAssembler(locale, timezone string, scheme IDScheme) (*Assembler, error) {
	if _, ok := monthNames[locale]; !ok {
		return nil, fmt.Errorf("record: unsupported locale %q", locale)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("record: load timezone %q: %w", timezone, err)
	}
	switch scheme {
	case IDTimestamp, IDUUID:
	default:
		return nil, fmt.Errorf("record: unknown id scheme %q", scheme)
	}
	return &Assembler{Locale: locale, Location: loc, IDScheme: scheme}, nil
}

// Assemble combines the transcript and extraction with keys derived from ts.
// For a fixed ts and the timestamp scheme the result is fully determined.
func (a *Assembler) Assemble(transcript string, fields types.ExtractedFields, ts time.Time) types.AnalysisRecord {
	return types.AnalysisRecord{
		PartitionKey:   a.PartitionKey(ts),
		RecordID:       a.RecordID(ts),
		TranscriptText: transcript,
		Extraction:     fields,
	}
}

// PartitionKey is "<YYYY>-<full month name>", e.g. "2024-June".
func (a *Assembler) PartitionKey(ts time.Time) string {
	ts = a.in(ts)
	names, ok := monthNames[a.Locale]
	if !ok {
		names = monthNames["en"]
	}
	return fmt.Sprintf("%04d-%s", ts.Year(), names[ts.Month()-1])
}

// RecordID is "<day>-<HH:MM:SS>" with no leading zero on the day, unless the
// assembler uses the uuid scheme.
func (a *Assembler) RecordID(ts time.Time) string {
	if a.IDScheme == IDUUID {
		return uuid.NewString()
	}
	ts = a.in(ts)
	return fmt.Sprintf("%d-%s", ts.Day(), ts.Format("15:04:05"))
}

func (a *Assembler) in(ts time.Time) time.Time {
	if a.Location == nil {
		return ts
	}
	return ts.In(a.Location)
}
