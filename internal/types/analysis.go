package types

import "encoding/json"

// ExtractedFields is the three-slot extraction the completion model fills in.
// The JSON names are the slot names the model is asked for.
type ExtractedFields struct {
	CustomerName         string `json:"CustomerName"`
	GeographicalLocation string `json:"GeographicalLocation"`
	ProductOfInterest    string `json:"ProductOfInterest"`
}

// AnalysisRecord is the unit of persistence, one per processed recording.
type AnalysisRecord struct {
	PartitionKey   string
	RecordID       string
	TranscriptText string
	Extraction     ExtractedFields
}

// Analysis is the persisted shape of ExtractedFields.
type Analysis struct {
	CustomerName         string `json:"customerName" bson:"customerName"`
	GeographicalLocation string `json:"geographicalLocation" bson:"geographicalLocation"`
	ProductOfInterest    string `json:"productOfInterest" bson:"productOfInterest"`
}

// Document is the store-facing representation of an AnalysisRecord. Key
// names match the documents written by earlier deployments.
type Document struct {
	YearMonth         string   `json:"yearMonth" bson:"yearMonth"`
	TranscriptionText string   `json:"transcriptionText" bson:"transcriptionText"`
	Analysis          Analysis `json:"analysis" bson:"analysis"`
	ID                string   `json:"id" bson:"id"`
}

// Document converts the record into the persisted document shape.
func (r AnalysisRecord) Document() Document {
	return Document{
		YearMonth:         r.PartitionKey,
		TranscriptionText: r.TranscriptText,
		Analysis: Analysis{
			CustomerName:         r.Extraction.CustomerName,
			GeographicalLocation: r.Extraction.GeographicalLocation,
			ProductOfInterest:    r.Extraction.ProductOfInterest,
		},
		ID: r.RecordID,
	}
}

// MarshalJSON encodes the record in its persisted document shape.
func (r AnalysisRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}
