package users

import "time"

// User represents a registered account with its credential hash.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	PhoneNumber  string
	PhonePrefix  string
	DateOfBirth  string
	Consent      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicProfile is the outward-facing representation of a user.
type PublicProfile struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	PhonePrefix string `json:"phone_prefix"`
	DateOfBirth string `json:"date_of_birth"`
	Consent     bool   `json:"rodo"`
}

func toProfile(u User) PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		PhonePrefix: u.PhonePrefix,
		DateOfBirth: u.DateOfBirth,
		Consent:     u.Consent,
	}
}
