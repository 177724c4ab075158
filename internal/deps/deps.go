package deps

// Requirement defines an external tool vx relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	MinVersion  Version
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Found       Version
	Required    Version
	Detail      string
	Err         error
}
