package credentials

// Storage keys, kept compatible with what the web client writes.
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "refresh_token"
)

// Store is a flat string key-value surface for credentials. Get never
// errors for a missing key; it reports absence through the bool.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Pair is the durable projection of a session: the access token used to
// authorize requests and the refresh token used to mint a new one.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// LoadPair reads both tokens from the store. Missing keys come back as
// empty strings.
func LoadPair(s Store) Pair {
	access, _ := s.Get(KeyAccessToken)
	refresh, _ := s.Get(KeyRefreshToken)
	return Pair{AccessToken: access, RefreshToken: refresh}
}

// SavePair writes both tokens. An empty refresh token removes the stored
// one rather than persisting an empty value.
func SavePair(s Store, p Pair) error {
	if err := s.Set(KeyAccessToken, p.AccessToken); err != nil {
		return err
	}
	if p.RefreshToken == "" {
		return s.Delete(KeyRefreshToken)
	}
	return s.Set(KeyRefreshToken, p.RefreshToken)
}

// ClearPair removes both tokens.
func ClearPair(s Store) error {
	return s.Delete(KeyAccessToken, KeyRefreshToken)
}
