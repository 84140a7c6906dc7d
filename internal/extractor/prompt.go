package extractor

import "fmt"

// Slot names of the extraction schema, in template order. Renaming or adding
// a slot changes the persisted document and needs a schema version bump.
const (
	SlotCustomerName         = "CustomerName"
	SlotGeographicalLocation = "GeographicalLocation"
	SlotProductOfInterest    = "ProductOfInterest"
)

var slots = []string{SlotCustomerName, SlotGeographicalLocation, SlotProductOfInterest}

const instruction = "From the following call transcript, please return the required information in the template provided after the call transcript:"

// Template is the one-shot output example sent with every prompt.
const Template = `{
    "CustomerName": "",
    "GeographicalLocation": "",
    "ProductOfInterest": ""
}`

// BuildPrompt embeds the transcript verbatim between the instruction and the
// template. The model is trusted to follow the template; Parse is where that
// trust is checked.
func BuildPrompt(transcript string) string {
	return fmt.Sprintf("%s\n\nCall Transcript:\n%s\n\nTemplate:\n%s", instruction, transcript, Template)
}
