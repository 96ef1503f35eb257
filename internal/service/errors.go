package service

import "errors"

var (
	// ErrNotMember is returned when the acting user is not an active member
	// of the group they are operating on.
	ErrNotMember = errors.New("not a member of this group")

	// ErrForbidden is returned when a user attempts an operation reserved
	// for another role or party (e.g. confirming someone else's payment).
	ErrForbidden = errors.New("operation not allowed for this user")

	// ErrInvalidInput is returned for requests that fail validation.
	ErrInvalidInput = errors.New("invalid input")
)
