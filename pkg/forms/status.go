package forms

// Status enumerates the validity states a model node can report.
type Status string

const (
	// StatusValid means the node (and, for containers, every enabled child)
	// passed all attached validators.
	StatusValid Status = "valid"
	// StatusInvalid means at least one validator failed.
	StatusInvalid Status = "invalid"
	// StatusPending means async validation is outstanding.
	StatusPending Status = "pending"
	// StatusDisabled means the node is exempt from validation and excluded
	// from its parent's aggregate validity.
	StatusDisabled Status = "disabled"
)
