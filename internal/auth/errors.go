package auth

import "errors"

// Token verification failure classes. The authentication gate swallows all
// of them into a pass-through; the refresh flow surfaces them.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrSubjectMismatch  = errors.New("token subject mismatch")
)
