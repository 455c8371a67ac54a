// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Every failure surfaced by the composition engine is a *StructuredError.
// Panel and layout validation failures carry ErrCodeInvalidRequest along
// with the offending section/panel indexes in Context.
//
// Example usage:
//
//	err := errors.NewWithContext(
//	    errors.ErrCodeInvalidRequest,
//	    "panel width must be one of 6, 12, 24",
//	    map[string]any{
//	        "section": 1,
//	        "panel":   3,
//	        "width":   8,
//	    },
//	)
//
//	if errors.IsCode(err, errors.ErrCodeInvalidRequest) {
//	    // reject input
//	}
package errors
