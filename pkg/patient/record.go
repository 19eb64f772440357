// Package patient maps a known patient record onto questionnaire answers.
package patient

// Record is the basic patient information served by the backend. Field names
// follow the backend's JSON.
type Record struct {
	ID            string  `json:"id"`
	Name          string  `json:"nombre"`
	Gender        string  `json:"genero"`
	BirthDate     string  `json:"fechaNacimiento"`
	MaritalStatus *string `json:"estadoCivil"`
	Race          *string `json:"raza"`
	BirthPlace    *string `json:"lugarNacimiento"`
	HeightValue   string  `json:"alturaValor"`
	HeightUnit    string  `json:"alturaUnidad"`
	WeightValue   string  `json:"pesoValor"`
	WeightUnit    string  `json:"pesoUnidad"`
	// Age is precomputed by the backend and only displayed.
	Age           int     `json:"edad"`
}
