package api

import (
	"context"
	"net/http"
)

const (
	loginPath       = "/api/auth/login"
	registerPath    = "/api/auth/register"
	refreshPath     = "/api/auth/refresh-token"
	logoutPath      = "/api/auth/logout"
	currentUserPath = "/api/auth/current-user"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh-token. The
// refresh token travels in the body; this call never carries the bearer
// header.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse is the backend's authentication envelope. Fields beyond
// the tokens are populated only by some flows, so they stay pointers.
type TokenResponse struct {
	AccessToken  *string `json:"accessToken,omitempty"`
	RefreshToken *string `json:"refreshToken,omitempty"`
	TokenType    string  `json:"tokenType,omitempty"`
	UserID       *int64  `json:"userId,omitempty"`
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Provider     *string `json:"provider,omitempty"`
}

// UserProfile is the record returned by GET /api/auth/current-user.
type UserProfile struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
	Provider          string   `json:"provider,omitempty"`
	Roles             []string `json:"roles,omitempty"`
	Verified          bool     `json:"verified,omitempty"`
}

// Login exchanges email/password for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	response := &TokenResponse{}
	err := c.do(ctx, http.MethodPost, loginPath, LoginRequest{Email: email, Password: password}, response, modePublic)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Register creates an account and, when the backend allows it, returns a
// token pair for the new user.
func (c *Client) Register(ctx context.Context, request RegisterRequest) (*TokenResponse, error) {
	response := &TokenResponse{}
	err := c.do(ctx, http.MethodPost, registerPath, request, response, modePublic)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// RefreshToken mints a new token pair from a refresh token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	response := &TokenResponse{}
	err := c.do(ctx, http.MethodPost, refreshPath, RefreshTokenRequest{RefreshToken: refreshToken}, response, modePublic)
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Logout invalidates the current token server-side. A 401 here surfaces
// directly instead of triggering the recovery cascade: the caller is
// tearing the session down anyway.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, logoutPath, nil, nil, modeAuthNoRecover)
}

// CurrentUser fetches the profile of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*UserProfile, error) {
	profile := &UserProfile{}
	if err := c.Get(ctx, currentUserPath, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
