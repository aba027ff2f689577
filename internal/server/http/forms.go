package http

import (
	"net/http"
	"strconv"
	"strings"
)

type registerForm struct {
	Username string `validate:"required,max=255"`
	Password string `validate:"required,max=72"`
	ID       string `validate:"omitempty,numeric"`
	// profile fields are only accepted together with the farmer id
	Name     string `validate:"omitempty,excluded_without=ID,max=255"`
	DOB      string `validate:"omitempty,excluded_without=ID,datetime=2006-01-02"`
	Gender   string `validate:"omitempty,excluded_without=ID,max=32"`
	Address  string `validate:"omitempty,excluded_without=ID,max=1024"`
	District string `validate:"omitempty,excluded_without=ID,max=255"`
}

type credentialsForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

type officialForm struct {
	EmpID      string `validate:"required,max=64"`
	Username   string `validate:"required,max=255"`
	Password   string `validate:"required,max=72"`
	DOB        string `validate:"omitempty,datetime=2006-01-02"`
	JoinedDate string `validate:"omitempty,datetime=2006-01-02"`
	Profession string `validate:"max=255"`
	Gender     string `validate:"max=32"`
}

type applyForm struct {
	FarmID      int64  `validate:"required,gt=0"`
	DateApplied string `validate:"required,datetime=2006-01-02"`
	Name        string `validate:"required,max=255"`
}

type approveForm struct {
	SchemeID int64  `validate:"required,gt=0"`
	Action   string `validate:"required,oneof=approve disapprove"`
}

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

// parseID reads a positive integer; anything else yields 0, which the
// gt=0 rules reject.
func parseID(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
