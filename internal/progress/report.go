package progress

// IndeterminatePercent is the sentinel percentage for operations whose
// completion fraction is unknown.
const IndeterminatePercent = -1

// Kind identifies the operation a report belongs to.
type Kind int

const (
	// KindGeneric is for reports outside a specific lifecycle operation.
	KindGeneric Kind = iota
	// KindInstall is for package installation.
	KindInstall
	// KindUpdate is for package updates.
	KindUpdate
	// KindLaunch is for package launches.
	KindLaunch
	// KindUninstall is for package removal.
	KindUninstall
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInstall:
		return "install"
	case KindUpdate:
		return "update"
	case KindLaunch:
		return "launch"
	case KindUninstall:
		return "uninstall"
	default:
		return "generic"
	}
}

// Report is an immutable point-in-time status of a long-running operation.
// Reports for one operation arrive in emission order, but Percentage need
// not be monotonic.
type Report struct {
	// OperationID names the emitting operation, usually the installed
	// package ID. Empty for the derived global aggregate.
	OperationID string

	// Percentage is 0-100, or IndeterminatePercent when unknown.
	Percentage float64

	// Indeterminate is true when Percentage carries no information.
	Indeterminate bool

	// Message is free text describing the current step.
	Message string

	// Kind is the operation category.
	Kind Kind

	// Failed marks the report as describing a failed step.
	Failed bool
}
