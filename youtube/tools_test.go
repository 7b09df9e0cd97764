package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	ai "github.com/spetersoncode/learnpath"
	"github.com/spetersoncode/learnpath/credential"
	"github.com/spetersoncode/learnpath/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// fakeYouTube records requests and serves canned API responses.
type fakeYouTube struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []map[string]any
	failAdd  string
}

func (f *fakeYouTube) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, body)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/search":
		_, _ = w.Write([]byte(`{"items":[
			{"id":{"videoId":"v1"},"snippet":{"title":"Go in 100 seconds","description":"Intro"}},
			{"id":{"channelId":"c1"},"snippet":{"title":"A channel"}},
			{"id":{"videoId":"v2"},"snippet":{"title":"Go tour","description":"Tour"}}
		]}`))
	case "/playlists":
		_, _ = w.Write([]byte(`{"id":"PL123"}`))
	case "/playlistItems":
		snippet, _ := body["snippet"].(map[string]any)
		resource, _ := snippet["resourceId"].(map[string]any)
		if resource["videoId"] == f.failAdd {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"item"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func setup(t *testing.T) (*fakeYouTube, *tool.Registry) {
	fake := &fakeYouTube{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c := New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), WithBaseURL(srv.URL))
	reg := tool.NewRegistry()
	require.NoError(t, reg.RegisterAll(Tools(c)...))
	return fake, reg
}

func call(t *testing.T, reg *tool.Registry, name, args string) (map[string]any, ai.ToolResult) {
	res, err := reg.Execute(context.Background(), ai.ToolCall{ID: "c1", Name: name, Arguments: args})
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &payload))
	return payload, res
}

func TestTools(t *testing.T) {
	t.Run("registers a valid tool set", func(t *testing.T) {
		_, reg := setup(t)
		assert.Equal(t, []string{ToolSearch, ToolCreateCollection, ToolAddItems}, reg.Names())
		assert.NoError(t, reg.Validate())
	})

	t.Run("search", func(t *testing.T) {
		fake, reg := setup(t)
		payload, res := call(t, reg, ToolSearch, `{"query":"learn go"}`)
		assert.False(t, res.IsError)

		videos := payload["videos"].([]any)
		require.Len(t, videos, 2)
		assert.Equal(t, map[string]any{"id": "v1", "title": "Go in 100 seconds", "description": "Intro"}, videos[0])

		req := fake.requests[0]
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		assert.Equal(t, "learn go", req.URL.Query().Get("q"))
		assert.Equal(t, "5", req.URL.Query().Get("maxResults"), "default applied")
		assert.Equal(t, "video", req.URL.Query().Get("type"))
	})

	t.Run("search clamps page size", func(t *testing.T) {
		fake, reg := setup(t)
		call(t, reg, ToolSearch, `{"query":"go","max_results":500}`)
		assert.Equal(t, "50", fake.requests[0].URL.Query().Get("maxResults"))
	})

	t.Run("search without query is rejected before any request", func(t *testing.T) {
		fake, reg := setup(t)
		payload, res := call(t, reg, ToolSearch, `{}`)
		assert.True(t, res.IsError)
		assert.Contains(t, payload["error"], "query")
		assert.Empty(t, fake.requests)
	})

	t.Run("create_collection makes a public playlist", func(t *testing.T) {
		fake, reg := setup(t)
		payload, res := call(t, reg, ToolCreateCollection, `{"title":"Go in 3 days"}`)
		assert.False(t, res.IsError)
		assert.Equal(t, map[string]any{"collection_id": "PL123"}, payload)

		body := fake.bodies[0]
		assert.Equal(t, "public", body["status"].(map[string]any)["privacyStatus"])
		assert.Equal(t, "AI-Generated Learning Path", body["snippet"].(map[string]any)["description"])
		assert.Equal(t, "snippet,status", fake.requests[0].URL.Query().Get("part"))
	})

	t.Run("add_items adds each video in order", func(t *testing.T) {
		fake, reg := setup(t)
		payload, res := call(t, reg, ToolAddItems, `{"collection_id":"PL123","item_ids":["v1","v2"]}`)
		assert.False(t, res.IsError)
		assert.Equal(t, "success", payload["status"])
		assert.Equal(t, "Added 2 videos to playlist PL123.", payload["message"])

		require.Len(t, fake.bodies, 2)
		second := fake.bodies[1]["snippet"].(map[string]any)
		assert.Equal(t, "PL123", second["playlistId"])
		assert.Equal(t, "v2", second["resourceId"].(map[string]any)["videoId"])
	})

	t.Run("api errors become error payloads", func(t *testing.T) {
		fake, reg := setup(t)
		fake.failAdd = "v2"
		payload, res := call(t, reg, ToolAddItems, `{"collection_id":"PL123","item_ids":["v1","v2","v3"]}`)
		assert.True(t, res.IsError)
		assert.Contains(t, payload["error"], "quotaExceeded")
		assert.Contains(t, payload["error"], "after 1 of 3")
		assert.Len(t, fake.requests, 2, "stops at the first failure")
	})
}

func TestUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), WithBaseURL(url))
	reg := tool.NewRegistry()
	require.NoError(t, reg.RegisterAll(Tools(c)...))

	payload, res := call(t, reg, ToolSearch, `{"query":"go"}`)
	assert.True(t, res.IsError)
	assert.Contains(t, payload["error"], "Failed to search YouTube")
}

func TestEachCallObtainsCredential(t *testing.T) {
	fake := &fakeYouTube{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	identity, err := credential.ParseClientIdentity([]byte(`{"installed":{"client_id":"id","client_secret":"secret",`+
		`"redirect_uris":["http://localhost"],"auth_uri":"https://accounts.example.com/auth",`+
		`"token_uri":"https://accounts.example.com/token"}}`), credential.YouTubeScope)
	require.NoError(t, err)
	store := credential.NewMemoryStore(&credential.Credential{AccessToken: "first"})
	src := credential.NewSource(identity, store)

	ctx := context.Background()
	c := New(src.TokenSource(ctx), WithBaseURL(srv.URL))

	_, err = c.Search(ctx, "go", 5)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, &credential.Credential{AccessToken: "second"}))
	_, err = c.Search(ctx, "go", 5)
	require.NoError(t, err)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 2)
	assert.Equal(t, "Bearer first", fake.requests[0].Header.Get("Authorization"))
	assert.Equal(t, "Bearer second", fake.requests[1].Header.Get("Authorization"))
}

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, ai.NewAuthError("obtain credential", errors.New("no interactive context available"))
}

func TestCredentialFailure(t *testing.T) {
	fake := &fakeYouTube{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := New(failingTokenSource{}, WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), "go", 5)
	require.Error(t, err)
	assert.True(t, ai.IsAuth(err))
	assert.Empty(t, fake.requests, "no request without a credential")
}

func TestCheck(t *testing.T) {
	fake := &fakeYouTube{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	c := New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}), WithBaseURL(srv.URL))
	resp, err := c.http.R().SetError(&apiError{}).Get("/missing")
	require.NoError(t, err)

	err = check("lookup", resp, nil)
	assert.True(t, ai.IsUpstream(err))
	assert.Equal(t, http.StatusNotFound, ai.StatusCodeOf(err))
}
