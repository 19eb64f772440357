package submission

import (
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-ontoform/pkg/patient"
)

// Response is the backend's answer to a submission. It is handed to
// presentation untouched.
type Response struct {
	Patient   PatientData     `json:"datosPaciente"`
	Reasoning ReasoningResult `json:"reasoningResult"`
}

// PatientData echoes the patient's basic data and medication list.
type PatientData struct {
	Basic       patient.Record `json:"datosBasicosPaciente"`
	Medications Medications    `json:"medicamentos"`
}

// Medications groups the patient's medication list.
type Medications struct {
	Classified   ClassifiedMedications `json:"clasificados"`
	Unclassified []Medication          `json:"noClasificados"`
}

type ClassifiedMedications struct {
	Diuretics    []Medication `json:"diureticos"`
	NonDiuretics []Medication `json:"noDiureticos"`
}

type Medication struct {
	Name                      string  `json:"name"`
	DoseQuantityUnit          *string `json:"doseQuantityUnit"`
	DoseQuantityValue         *string `json:"doseQuantityValue"`
	PeriodAdministrationValue *string `json:"periodAdministrationValue"`
	PeriodAdministrationUnit  *string `json:"periodAdministrationUnit"`
	Drugs                     []Drug  `json:"drugs"`
}

type Drug struct {
	Codes DrugCodes `json:"codigos"`
	Name  string    `json:"nombre"`
}

type DrugCodes struct {
	SnomedCT string `json:"snomedCT"`
	RxNorm   string `json:"rxnorm"`
	CUI      string `json:"cui"`
}

// ReasoningResult carries the statements derived by the reasoner.
type ReasoningResult struct {
	DerivedStatements   []string             `json:"derivedStatements"`
	Derivations         []json.RawMessage    `json:"derivations"`
	TotalStatements     int                  `json:"totalStatements"`
	Success             bool                 `json:"success"`
	ErrorMessage        *string              `json:"errorMessage"`
	WomanRecommendation *WomanRecommendation `json:"womanRecommendation,omitempty"`
}

// WomanRecommendation holds the screening recommendations by risk band.
type WomanRecommendation struct {
	Mid  *Recommendation `json:"midRecommendation,omitempty"`
	High *Recommendation `json:"highRecommendation,omitempty"`
}

type Recommendation struct {
	Imaging     string `json:"imaging"`
	Strength    string `json:"strength"`
	Periodicity string `json:"periodicity"`
	ForInterval string `json:"forInterval"`
}
