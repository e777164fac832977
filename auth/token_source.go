package auth

import (
	"context"

	"github.com/ChathuminaK/SkillWave-sub000/token"
	"golang.org/x/oauth2"
)

// TokenSource adapts the managed session to the standard oauth2
// interface, so transports built on golang.org/x/oauth2 ride the same
// single-flight refresh discipline as the rest of the client.
func (m *SessionManager) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &sessionTokenSource{manager: m, ctx: ctx}
}

type sessionTokenSource struct {
	manager *SessionManager
	ctx     context.Context
}

// Token returns the current access token, refreshing it first when it is
// within the expiry threshold. It fails with NotAuthenticatedErr when no
// session is established.
func (ts *sessionTokenSource) Token() (*oauth2.Token, error) {
	m := ts.manager

	m.mu.Lock()
	status := m.session.Status
	accessToken := m.session.AccessToken
	m.mu.Unlock()

	if status != StatusAuthenticated {
		return nil, NotAuthenticatedErr
	}

	if m.inspector.IsExpiring(accessToken) {
		if err := m.refresh(ts.ctx); err != nil {
			return nil, err
		}
		m.mu.Lock()
		status = m.session.Status
		accessToken = m.session.AccessToken
		m.mu.Unlock()
		if status != StatusAuthenticated || accessToken == "" {
			return nil, NotAuthenticatedErr
		}
	}

	oauthToken := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	if claims, ok := token.Decode(accessToken); ok {
		oauthToken.Expiry = claims.ExpiresAt
	}
	return oauthToken, nil
}
