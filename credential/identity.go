package credential

import (
	"fmt"
	"os"

	ai "github.com/spetersoncode/learnpath"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ClientIdentity is the OAuth client registration parsed from a Google
// client_secret.json file.
type ClientIdentity struct {
	Config *oauth2.Config
}

// ParseClientIdentity parses client secret JSON (either the "installed" or
// the "web" form) and requests the given scopes.
func ParseClientIdentity(data []byte, scopes ...string) (*ClientIdentity, error) {
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, ai.NewConfigError("parse client secret", err)
	}
	return &ClientIdentity{Config: cfg}, nil
}

// LoadClientIdentity reads and parses a client secret file.
func LoadClientIdentity(path string, scopes ...string) (*ClientIdentity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ai.NewConfigError(fmt.Sprintf("read client secret %s", path), err)
	}
	return ParseClientIdentity(data, scopes...)
}

// Scopes returns the scopes requested by this identity.
func (id *ClientIdentity) Scopes() []string {
	return id.Config.Scopes
}
