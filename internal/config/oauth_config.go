package config

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetOAuthLoginURL returns the backend URL that starts the OAuth2 login
// flow for the given provider. The provider redirects back with a token in
// the callback URL, which is handed to the session manager as-is.
func (o OAuth) GetOAuthLoginURL(provider string) string {
	if !supportedProvider(provider) {
		return ""
	}
	return EnvVars{}.GetAPIBaseURL() + "/api/auth/oauth2/" + provider + "/login"
}

// GetOAuthRegistrationURL returns the backend URL that starts the OAuth2
// registration flow for the given provider.
func (o OAuth) GetOAuthRegistrationURL(provider string) string {
	if !supportedProvider(provider) {
		return ""
	}
	return EnvVars{}.GetAPIBaseURL() + "/api/auth/oauth2/" + provider + "/register"
}

func supportedProvider(provider string) bool {
	return provider == "google" || provider == "github"
}
