package domain

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

type PersonStatus string

const (
	PersonActive   PersonStatus = "active"
	PersonInactive PersonStatus = "inactive"
)

// DependencyType is the scheduling relationship between two phases.
type DependencyType string

const (
	// FinishToStart: successor may not start before the predecessor ends.
	FinishToStart DependencyType = "FS"
	// StartToStart: successor may not start before the predecessor starts.
	StartToStart DependencyType = "SS"
	// FinishToFinish: successor may not end before the predecessor ends.
	FinishToFinish DependencyType = "FF"
	// StartToFinish: successor may not end before the predecessor starts.
	StartToFinish DependencyType = "SF"
)

// ValidDependencyTypes is the canonical set of accepted dependency type strings.
var ValidDependencyTypes = map[string]bool{
	"FS": true, "SS": true, "FF": true, "SF": true,
}

// ValidRoles is the canonical set of accepted role strings for people
// and assignments.
var ValidRoles = map[string]bool{
	"engineer": true, "designer": true, "pm": true, "qa": true,
	"analyst": true, "architect": true, "ops": true, "generic": true,
}
