package workout

import (
	"fmt"
	"strings"
)

// UnknownAreaError reports a request for an area the catalog does not have.
type UnknownAreaError struct {
	Area      string
	Available []string
}

func (e *UnknownAreaError) Error() string {
	return fmt.Sprintf("workout: area %q not found, available areas: %s",
		e.Area, strings.Join(e.Available, ", "))
}

// InsufficientCountError reports a coverage request too small to fit one
// exercise per area.
type InsufficientCountError struct {
	Count int
	Areas int
}

func (e *InsufficientCountError) Error() string {
	return fmt.Sprintf("workout: count %d must be at least the number of areas (%d)", e.Count, e.Areas)
}
