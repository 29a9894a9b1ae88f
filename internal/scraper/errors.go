package scraper

import "fmt"

// ParseError reports a document that was fetched but yielded no usable events
type ParseError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing %s: %s", e.Kind, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
