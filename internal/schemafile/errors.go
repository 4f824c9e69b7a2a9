package schemafile

import "fmt"

// ParseError represents a schema document that could not be decoded.
type ParseError struct {
	File    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("schemafile: %s: %s", e.File, e.Message)
	}
	return fmt.Sprintf("schemafile: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
