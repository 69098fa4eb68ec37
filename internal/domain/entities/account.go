package entities

// Account is the already-verified caller profile stamped onto responses
type Account struct {
	Subject string `json:"subject,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// IsZero reports whether no field is set
func (a Account) IsZero() bool {
	return a == Account{}
}
