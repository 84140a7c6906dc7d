package types

import (
	"encoding/json"
	"testing"
)

func TestAnalysisRecordDocumentShape(t *testing.T) {
	rec := AnalysisRecord{
		PartitionKey:   "2024-March",
		RecordID:       "5-14:02:09",
		TranscriptText: "Hi, Jane here.",
		Extraction: ExtractedFields{
			CustomerName:         "Jane",
			GeographicalLocation: "Ohio",
			ProductOfInterest:    "widgets",
		},
	}

	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"yearMonth":"2024-March","transcriptionText":"Hi, Jane here.","analysis":{"customerName":"Jane","geographicalLocation":"Ohio","productOfInterest":"widgets"},"id":"5-14:02:09"}`
	if string(b) != want {
		t.Errorf("got  %s\nwant %s", b, want)
	}
}
