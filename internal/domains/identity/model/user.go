package model

// Profile is the account profile as served by /api/account/profile.
type Profile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	CountryCode string   `json:"countryCode,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	Roles       []string `json:"roles"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}
