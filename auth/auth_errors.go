package auth

import "errors"

var (
	InvalidCredentialsErr = errors.New("invalid credentials")
	NotAuthenticatedErr   = errors.New("not authenticated")
	RefreshRejectedErr    = errors.New("refresh token rejected")
	SessionReplacedErr    = errors.New("session replaced before the operation completed")
	MissingAccessTokenErr = errors.New("auth response missing access token")
)
