package session_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamauth/pkg/launcher"
	"github.com/dmitrymomot/streamauth/pkg/logger"
	"github.com/dmitrymomot/streamauth/pkg/provider"
	"github.com/dmitrymomot/streamauth/pkg/session"
	"github.com/dmitrymomot/streamauth/pkg/store"
)

const (
	testClientID   = "client-123"
	testStorageKey = "@stream.data:user"
)

// fakeProvider serves the users and revoke endpoints.
type fakeProvider struct {
	*httptest.Server

	mu            sync.Mutex
	profileStatus int
	revokeStatus  int
	profileAuth   []string
	revoked       []string
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()

	p := &fakeProvider{profileStatus: http.StatusOK, revokeStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/helix/users", func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.profileAuth = append(p.profileAuth, r.Header.Get("Authorization"))
		status := p.profileStatus
		p.mu.Unlock()

		if status != http.StatusOK {
			http.Error(w, "nope", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"id":                "1",
				"display_name":      "a",
				"email":             "a@x",
				"profile_image_url": "u",
			}},
		})
	})
	mux.HandleFunc("/oauth2/revoke", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		p.mu.Lock()
		p.revoked = append(p.revoked, r.PostForm.Get("token"))
		status := p.revokeStatus
		p.mu.Unlock()
		w.WriteHeader(status)
	})

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Close)
	return p
}

func (p *fakeProvider) config() provider.Config {
	return provider.Config{
		ClientID:  testClientID,
		AuthURL:   p.URL + "/oauth2/authorize",
		RevokeURL: p.URL + "/oauth2/revoke",
		APIURL:    p.URL + "/helix",
	}
}

func (p *fakeProvider) revokedTokens() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.revoked...)
}

func (p *fakeProvider) profileAuthHeaders() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.profileAuth...)
}

type mockLauncher struct {
	mock.Mock
}

func (m *mockLauncher) Launch(ctx context.Context, authURL string) launcher.Result {
	args := m.Called(ctx, authURL)
	return args.Get(0).(launcher.Result)
}

// faultyStore wraps a MemoryStore and fails the configured operations.
type faultyStore struct {
	*store.MemoryStore
	getErr    error
	setErr    error
	deleteErr error
}

func (s *faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *faultyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *faultyStore) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryStore.Delete(ctx, key)
}

var errBoom = errors.New("boom")

func fixedState(s string) session.Option {
	return session.WithStateGenerator(func() (string, error) { return s, nil })
}

func redirectWith(pairs ...string) launcher.Result {
	params := url.Values{}
	for i := 0; i+1 < len(pairs); i += 2 {
		params.Set(pairs[i], pairs[i+1])
	}
	return launcher.Success(params)
}

func newManager(t *testing.T, st store.Store, client *provider.Client, l launcher.Launcher, opts ...session.Option) *session.Manager {
	t.Helper()

	opts = append([]session.Option{session.WithLogger(logger.Discard())}, opts...)
	mgr, err := session.New(session.Config{
		ClientID:    testClientID,
		RedirectURL: "http://localhost:3000/callback",
		StorageKey:  testStorageKey,
	}, st, client, l, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func persist(t *testing.T, st store.Store, rec session.Record) {
	t.Helper()
	data, err := session.EncodeRecord(rec)
	require.NoError(t, err)
	require.NoError(t, st.Set(context.Background(), testStorageKey, data))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
