package store

import "errors"

var (
	// ErrPasscodeNotConfigured means the family passcode is missing from
	// configuration; login and registration cannot proceed at all.
	ErrPasscodeNotConfigured = errors.New("family passcode is not configured")

	// ErrWrongPasscode means the supplied shared passcode does not match
	ErrWrongPasscode = errors.New("that is not the family passcode")

	// ErrInvalidCredentials means the member's own credentials failed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMemberNotFound means the referenced family member does not exist.
	// Login requires the member record, so this surfaces as an error rather
	// than a nil result.
	ErrMemberNotFound = errors.New("family member not found")

	// ErrEmailInUse means a member with that email is already registered
	ErrEmailInUse = errors.New("a family member with that email already exists")

	// ErrEmptyAlbumName rejects blank album names before any remote call
	ErrEmptyAlbumName = errors.New("album name must not be empty")

	// ErrEmptyComment rejects comments that are blank after trimming
	ErrEmptyComment = errors.New("comment text must not be empty")

	// ErrEmptyDisplayName rejects blank display names on profile edits
	ErrEmptyDisplayName = errors.New("display name must not be empty")
)
