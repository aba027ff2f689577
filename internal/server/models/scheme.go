package models

// SchemeState is the derived review state of a scheme application.
type SchemeState string

const (
	SchemePending     SchemeState = "pending"
	SchemeApproved    SchemeState = "approved"
	SchemeDisapproved SchemeState = "disapproved"
)

// SchemeAction is a reviewer decision.
type SchemeAction string

const (
	ActionApprove    SchemeAction = "approve"
	ActionDisapprove SchemeAction = "disapprove"
)

// Valid reports whether a is a known action.
func (a SchemeAction) Valid() bool {
	return a == ActionApprove || a == ActionDisapprove
}

// Approved maps the action onto the stored flag value.
func (a SchemeAction) Approved() bool {
	return a == ActionApprove
}

// SchemeApplication is a farmer's request for a scheme. Approved is nil
// while the application is pending.
type SchemeApplication struct {
	ID          int64
	FarmID      int64
	DateApplied string
	Name        string
	Approved    *bool

	// FarmerName is filled by listings that join the farmer profile; it is
	// empty when no profile exists for FarmID.
	FarmerName string
}

// State derives the review state from the tri-state Approved flag.
func (s *SchemeApplication) State() SchemeState {
	switch {
	case s.Approved == nil:
		return SchemePending
	case *s.Approved:
		return SchemeApproved
	default:
		return SchemeDisapproved
	}
}
