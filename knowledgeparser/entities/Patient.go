package entities

// PatientFactors is the optional patient context of an analysis. It only
// affects narrative output, never the interaction lookup itself. Age is nil
// when not given; zero is a valid age.
type PatientFactors struct {
	Age        *int     `json:"age,omitempty" validate:"omitempty,min=0,max=130"`
	Conditions []string `json:"conditions,omitempty" validate:"omitempty,max=50,dive,max=100"`
	Allergies  []string `json:"allergies,omitempty" validate:"omitempty,max=50,dive,max=100"`
}

// IsElderly reports whether the age-risk rules apply.
func (p *PatientFactors) IsElderly() bool {
	return p != nil && p.Age != nil && *p.Age >= 65
}

// IsPediatric reports whether pediatric dosing rules apply.
func (p *PatientFactors) IsPediatric() bool {
	return p != nil && p.Age != nil && *p.Age < 18
}
