// Package credential manages the OAuth credential used by the YouTube tool
// adapters.
//
// A [Source] hands out a currently valid [Credential]. It loads the persisted
// credential from a [Store], refreshes it against the provider token endpoint
// when it has expired, and falls back to an interactive [Authorizer] when no
// usable credential exists. Every new or refreshed credential is persisted
// before it is returned.
//
// Two stores are provided. [FileStore] keeps the credential in a JSON file
// written atomically with owner-only permissions. [MemoryStore] holds it in
// process and is used for headless deployments where the credential arrives
// as base64 configuration (see [DecodeSecrets]).
//
//	identity, err := credential.LoadClientIdentity("client_secret.json", credential.YouTubeScope)
//	src := credential.NewSource(identity, credential.NewFileStore("token.json"),
//	    credential.WithAuthorizer(&credential.LoopbackAuthorizer{}))
//	httpClient := src.HTTPClient(ctx)
package credential
