package services

import "errors"

// ErrUnsupportedRole is returned when a role outside student/teacher/parent
// reaches the ID allocator or field mapper. Normal portal flows can never
// trigger it.
var ErrUnsupportedRole = errors.New("unsupported role")

// ErrNoLinkedStudent is the linker's expected "absence of a link" outcome.
var ErrNoLinkedStudent = errors.New("no linked student")

// ErrDuplicateEmail is returned when a registration reuses an email.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateRoleID is returned when a role identifier is already taken at
// persistence time (concurrent registrations can both compute the same next
// id; the caller retries).
var ErrDuplicateRoleID = errors.New("role id already taken")

// ValidationError marks input rejected before any write was attempted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}
