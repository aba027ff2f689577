package models

// Official is a registered government employee allowed to review schemes.
type Official struct {
	EmpID        string
	Username     string
	PasswordHash string
	DOB          string
	JoinedDate   string
	Profession   string
	Gender       string
}
