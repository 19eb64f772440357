// Package submission flattens form answers into the payload accepted by the
// recommendation backend and models the backend's reply.
package submission

import "github.com/goliatone/go-ontoform/pkg/form"

// Pack drops companion unit keys and renders every remaining answer as its
// canonical text. The result is one flat level.
func Pack(values map[string]form.Value) map[string]string {
	out := make(map[string]string, len(values))
	for key, value := range values {
		if form.IsUnitKey(key) {
			continue
		}
		out[key] = value.String()
	}
	return out
}

// Payload is the body posted to the recommendation backend.
type Payload struct {
	PatientID string            `json:"id"`
	Answers   map[string]string `json:"womanHistoryData"`
}

// NewPayload packs values for patientID.
func NewPayload(patientID string, values map[string]form.Value) Payload {
	return Payload{PatientID: patientID, Answers: Pack(values)}
}
