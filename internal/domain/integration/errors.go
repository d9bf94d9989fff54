package integration

import "fmt"

// TransportError indicates the platform could not be reached or the
// HTTP exchange itself failed.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: request to %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError indicates the platform responded but the body
// was not valid JSON or lacked required fields.
type MalformedResponseError struct {
	Op     string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: malformed platform response: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: malformed platform response: %s", e.Op, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// UploadError indicates a storage write failed for a specific key.
// Path is the originating local file, if any.
type UploadError struct {
	Key  string
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("upload of %s to key %s failed: %v", e.Path, e.Key, e.Err)
	}
	return fmt.Sprintf("upload to key %s failed: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// CommitRejectedError indicates the platform answered the commit
// request but did not accept it: non-201 status or a result token
// other than "Success".
type CommitRejectedError struct {
	SessionPath string
	StatusCode  int
	Result      string
}

func (e *CommitRejectedError) Error() string {
	return fmt.Sprintf("platform rejected commit of session %s: status=%d result=%q",
		e.SessionPath, e.StatusCode, e.Result)
}

// InvariantViolation indicates internal state inconsistency, e.g.
// commit called twice on one session.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Reason
}
