package credential

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	ai "github.com/spetersoncode/learnpath"
)

// EncodeFiles reads a client secret file and a token file and returns their
// base64 encodings, suitable for CLIENT_SECRET_B64 and TOKEN_B64.
func EncodeFiles(secretPath, tokenPath string) (secretB64, tokenB64 string, err error) {
	secret, err := os.ReadFile(secretPath)
	if err != nil {
		return "", "", ai.NewConfigError(fmt.Sprintf("read client secret %s", secretPath), err)
	}
	token, err := os.ReadFile(tokenPath)
	if err != nil {
		return "", "", ai.NewConfigError(fmt.Sprintf("read token %s", tokenPath), err)
	}
	if _, err := ParseClientIdentity(secret); err != nil {
		return "", "", err
	}
	var c Credential
	if err := json.Unmarshal(token, &c); err != nil {
		return "", "", ai.NewConfigError(fmt.Sprintf("decode token %s", tokenPath), err)
	}
	return base64.StdEncoding.EncodeToString(secret), base64.StdEncoding.EncodeToString(token), nil
}

// DecodeSecrets reverses EncodeFiles.
func DecodeSecrets(secretB64, tokenB64 string, scopes ...string) (*ClientIdentity, *Credential, error) {
	secret, err := base64.StdEncoding.DecodeString(secretB64)
	if err != nil {
		return nil, nil, ai.NewConfigError("CLIENT_SECRET_B64 is not valid base64", err)
	}
	token, err := base64.StdEncoding.DecodeString(tokenB64)
	if err != nil {
		return nil, nil, ai.NewConfigError("TOKEN_B64 is not valid base64", err)
	}

	identity, err := ParseClientIdentity(secret, scopes...)
	if err != nil {
		return nil, nil, err
	}
	var c Credential
	if err := json.Unmarshal(token, &c); err != nil {
		return nil, nil, ai.NewConfigError("TOKEN_B64 does not hold a JSON token", err)
	}
	return identity, &c, nil
}

// NewHeadlessSource builds a source from base64 secrets. The credential
// lives in memory and there is no interactive fallback.
func NewHeadlessSource(secretB64, tokenB64 string, opts ...SourceOption) (*Source, error) {
	identity, c, err := DecodeSecrets(secretB64, tokenB64, YouTubeScope)
	if err != nil {
		return nil, err
	}
	return NewSource(identity, NewMemoryStore(c), opts...), nil
}
