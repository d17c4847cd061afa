package capture

import "fmt"

// FailureKind classifies why a capture iteration failed.
type FailureKind string

const (
	FailureNavigation       FailureKind = "navigation_failed"
	FailureEmailNotFound    FailureKind = "email_field_not_found"
	FailurePasswordNotFound FailureKind = "password_field_not_found"
	FailureTokenNotCaptured FailureKind = "token_not_captured"
	FailureBrowserLaunch    FailureKind = "browser_launch_failed"
)

// FlowError is a classified login-flow failure. Per-stage errors never
// escape the capture session unclassified.
type FlowError struct {
	Kind  FailureKind
	Stage string
	Err   error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at stage %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s at stage %s", e.Kind, e.Stage)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// ClassifyFailure returns the failure kind of err, or "error" for anything
// that is not a FlowError.
func ClassifyFailure(err error) FailureKind {
	if fe, ok := err.(*FlowError); ok {
		return fe.Kind
	}
	return FailureKind("error")
}
