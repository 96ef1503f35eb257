package models

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name of the user.
	Name string

	// Email is the user's email address (unique). Used for login.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// ProfilePicture is an optional avatar URL, attached to balance views
	// for presentation only.
	ProfilePicture string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64
}
