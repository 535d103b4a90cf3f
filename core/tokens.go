package core

// TokenPair holds the bearer tokens issued by the auth endpoint. The access
// token lives roughly 15 minutes, the refresh token roughly 30 days. Pairs
// exist in process memory only and are dropped on logout or restart.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether no usable access token is held.
func (t TokenPair) Empty() bool { return t.AccessToken == "" }
