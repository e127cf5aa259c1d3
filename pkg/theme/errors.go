package theme

import "fmt"

// InvalidTokenError reports a theme token whose value does not have the
// shape its category requires. It is fatal to a build.
type InvalidTokenError struct {
	Category string
	Name     string
	Value    string
	Reason   string
}

func (e *InvalidTokenError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid theme category %q: %s", e.Category, e.Reason)
	}
	return fmt.Sprintf("invalid theme token %s.%s = %q: %s", e.Category, e.Name, e.Value, e.Reason)
}
