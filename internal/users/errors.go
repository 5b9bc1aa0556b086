package users

import "errors"

var (
	// ErrMissingFields indicates one of fullName, email, username, password is blank
	ErrMissingFields = errors.New("all fields are required")

	// ErrAvatarRequired indicates registration was attempted without an avatar file
	ErrAvatarRequired = errors.New("avatar is required")

	// ErrAvatarUpload indicates the media store did not return a URL for the avatar
	ErrAvatarUpload = errors.New("avatar is not uploaded")

	// ErrUserExists indicates the username or email is already registered
	ErrUserExists = errors.New("user with this username or email already exists")

	// ErrInvalidCredentials indicates an unknown user or a wrong password
	ErrInvalidCredentials = errors.New("invalid user credentials")

	// ErrUserNotFound indicates the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")
)

// IsValidationError checks if an error is caused by bad registration input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrAvatarRequired) ||
		errors.Is(err, ErrAvatarUpload)
}
