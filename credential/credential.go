package credential

import (
	"encoding/json"
	"time"

	"golang.org/x/oauth2"
)

// YouTubeScope grants read/write access to the user's YouTube account.
const YouTubeScope = "https://www.googleapis.com/auth/youtube.force-ssl"

// expirySkew treats a credential as expired slightly before its real expiry
// so it does not lapse in flight.
const expirySkew = 10 * time.Second

// Credential is a persisted OAuth access/refresh token pair.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
}

// UnmarshalJSON also accepts the "token" field written by Google's Python
// auth libraries in place of "access_token".
func (c *Credential) UnmarshalJSON(data []byte) error {
	type plain Credential
	var aux struct {
		plain
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Credential(aux.plain)
	if c.AccessToken == "" {
		c.AccessToken = aux.Token
	}
	return nil
}

// Valid reports whether the access token is usable at now.
// A zero Expiry never expires.
func (c *Credential) Valid(now time.Time) bool {
	if c == nil || c.AccessToken == "" {
		return false
	}
	if c.Expiry.IsZero() {
		return true
	}
	return now.Add(expirySkew).Before(c.Expiry)
}

// Refreshable reports whether the credential carries a refresh token.
func (c *Credential) Refreshable() bool {
	return c != nil && c.RefreshToken != ""
}

// Token converts the credential into an oauth2 token.
func (c *Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		TokenType:    c.TokenType,
		RefreshToken: c.RefreshToken,
		Expiry:       c.Expiry,
	}
}

// FromToken builds a credential from an oauth2 token. When the token has no
// refresh token, fallbackRefresh is kept so a refresh never loses it.
func FromToken(tok *oauth2.Token, scopes []string, fallbackRefresh string) *Credential {
	refresh := tok.RefreshToken
	if refresh == "" {
		refresh = fallbackRefresh
	}
	return &Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: refresh,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
		Scopes:       scopes,
	}
}
