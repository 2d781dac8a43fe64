package brainrot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

// fakeAccountAPI is a stand-in Account API whose per-endpoint behavior can
// be swapped out by each test. It counts how many requests reach each
// endpoint.
type fakeAccountAPI struct {
	server   *httptest.Server
	mu       sync.Mutex
	counts   map[string]int
	handlers map[string]http.HandlerFunc
}

func newFakeAccountAPI() *fakeAccountAPI {
	f := &fakeAccountAPI{
		counts:   map[string]int{},
		handlers: map[string]http.HandlerFunc{},
	}
	router := mux.NewRouter()
	endpoints := []struct {
		name   string
		method string
		path   string
	}{
		{"register", http.MethodPost, "/users/register"},
		{"login", http.MethodPost, "/users/login"},
		{"verify", http.MethodGet, "/users/verify"},
		{"me", http.MethodGet, "/users/me"},
		{"refresh", http.MethodPost, "/users/refresh"},
		{"logout", http.MethodPost, "/users/logout"},
	}
	for _, endpoint := range endpoints {
		name := endpoint.name
		router.HandleFunc(
			endpoint.path,
			func(w http.ResponseWriter, r *http.Request) {
				f.mu.Lock()
				f.counts[name]++
				handler := f.handlers[name]
				f.mu.Unlock()
				if handler == nil {
					w.WriteHeader(http.StatusNotFound)
					fmt.Fprint(w, `{"detail": "Not found"}`)
					return
				}
				handler(w, r)
			},
		).Methods(endpoint.method)
	}
	f.server = httptest.NewServer(router)
	return f
}

func (f *fakeAccountAPI) handle(name string, handler http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = handler
}

func (f *fakeAccountAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[name]
}

func (f *fakeAccountAPI) totalCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, count := range f.counts {
		total += count
	}
	return total
}

func (f *fakeAccountAPI) close() {
	f.server.Close()
}

func userOK(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, testUserJSON)
}

func denied(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusForbidden)
	fmt.Fprint(w, `{"detail": "Invalid token or expired token."}`)
}

func refreshOK(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "renewed"})
	w.WriteHeader(http.StatusCreated)
	fmt.Fprint(w, `{"status": "success"}`)
}

func logoutOK(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, `{"message": "Successfully logged out"}`)
}

type testSession struct {
	api         *fakeAccountAPI
	manager     *SessionManager
	creds       *CredentialStore
	mu          sync.Mutex
	logoutCount int
}

func (s *testSession) loggedOut() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutCount
}

func newTestSession(t *testing.T) *testSession {
	s := &testSession{
		api:   newFakeAccountAPI(),
		creds: NewCredentialStore(""),
	}
	t.Cleanup(s.api.close)
	s.manager = NewSessionManager(
		s.api.server.URL,
		s.creds,
		false,
		func() {
			s.mu.Lock()
			s.logoutCount++
			s.mu.Unlock()
		},
	)
	return s
}

func TestInitializeWithoutAuthCookieMarker(t *testing.T) {
	s := newTestSession(t)
	require.Equal(t, AuthUnknown, s.manager.Session().Status)

	s.manager.Initialize(context.Background())

	// No marker means no network call at all
	require.Equal(t, AuthAnonymous, s.manager.Session().Status)
	require.Zero(t, s.api.totalCount())
}

func TestInitializeVerifiesExistingSession(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=existing")
	s.api.handle("verify", userOK)

	s.manager.Initialize(context.Background())

	session := s.manager.Session()
	require.Equal(t, AuthAuthenticated, session.Status)
	require.NotNil(t, session.CurrentUser)
	require.Equal(t, "alice", session.CurrentUser.Username)
	require.Equal(t, 1, s.api.count("verify"))
}

func TestInitializeRunsOnlyOnce(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=existing")
	s.api.handle("verify", userOK)

	s.manager.Initialize(context.Background())
	s.manager.Initialize(context.Background())

	require.Equal(t, 1, s.api.count("verify"))
}

func TestInitializeRecoversViaRefresh(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=expired")
	verifyAttempts := 0
	s.api.handle("verify", func(w http.ResponseWriter, r *http.Request) {
		verifyAttempts++
		if verifyAttempts == 1 {
			denied(w, r)
			return
		}
		userOK(w, r)
	})
	s.api.handle("refresh", refreshOK)

	s.manager.Initialize(context.Background())

	session := s.manager.Session()
	require.Equal(t, AuthAuthenticated, session.Status)
	require.NotNil(t, session.CurrentUser)
	require.Equal(t, 1, s.api.count("refresh"))
	require.Equal(t, 2, s.api.count("verify"))
	// The renewed credential was mirrored into the store
	require.Equal(t, "renewed", s.creds.Token())
}

func TestInitializeGivesUpAfterFailedRefresh(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=expired")
	s.api.handle("verify", denied)
	s.api.handle("refresh", denied)
	s.api.handle("logout", logoutOK)

	s.manager.Initialize(context.Background())

	require.Equal(t, AuthAnonymous, s.manager.Session().Status)
	require.False(t, s.creds.HasCredential())
	require.Equal(t, 1, s.api.count("logout"))
	require.Equal(t, 1, s.loggedOut())
}

func TestVerifyLeavesStateUntouchedOnFailure(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=existing")
	s.api.handle("verify", userOK)
	require.True(t, s.manager.Verify(context.Background()))

	s.api.handle("verify", denied)
	require.False(t, s.manager.Verify(context.Background()))

	session := s.manager.Session()
	require.Equal(t, AuthAuthenticated, session.Status)
	require.NotNil(t, session.CurrentUser)
}

func TestVerifyRejectsConcurrentCall(t *testing.T) {
	s := newTestSession(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	s.api.handle("verify", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		userOK(w, r)
	})

	firstDone := make(chan bool)
	go func() {
		firstDone <- s.manager.Verify(context.Background())
	}()
	<-entered

	// The duplicate caller is shed immediately, without waiting
	require.False(t, s.manager.Verify(context.Background()))

	close(release)
	require.True(t, <-firstDone)
	require.Equal(t, 1, s.api.count("verify"))
}

func TestRefreshRejectsConcurrentCall(t *testing.T) {
	s := newTestSession(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	s.api.handle("refresh", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		refreshOK(w, r)
	})
	s.api.handle("verify", userOK)

	firstDone := make(chan bool)
	go func() {
		firstDone <- s.manager.RefreshAccessToken(context.Background())
	}()
	<-entered

	require.False(t, s.manager.RefreshAccessToken(context.Background()))

	close(release)
	require.True(t, <-firstDone)
	require.Equal(t, 1, s.api.count("refresh"))
}

func TestLoginSuccess(t *testing.T) {
	s := newTestSession(t)
	s.api.handle("login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "fresh"})
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, testUserJSON)
	})
	s.api.handle("verify", userOK)

	result := s.manager.Login(context.Background(), "alice@example.com", "pw1")

	require.True(t, result.Success)
	require.Empty(t, result.Error)
	session := s.manager.Session()
	require.Equal(t, AuthAuthenticated, session.Status)
	require.Equal(t, "fresh", s.creds.Token())
}

func TestLoginRejectedWithServerDetail(t *testing.T) {
	s := newTestSession(t)
	s.api.handle("login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail": "Invalid credentials"}`)
	})

	result := s.manager.Login(context.Background(), "alice@example.com", "no")

	require.False(t, result.Success)
	require.Equal(t, "Invalid credentials", result.Error)
	require.Zero(t, s.api.count("verify"))
}

func TestLoginNotTrustedWithoutVerify(t *testing.T) {
	s := newTestSession(t)
	s.api.handle("login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, testUserJSON)
	})
	s.api.handle("verify", denied)

	result := s.manager.Login(context.Background(), "alice@example.com", "pw1")

	// A nominally successful login whose session is unusable is a failure
	require.False(t, result.Success)
	require.Equal(t, loginFailureMessage, result.Error)
	require.NotEqual(t, AuthAuthenticated, s.manager.Session().Status)
}

func TestRegisterSuccess(t *testing.T) {
	s := newTestSession(t)
	s.api.handle("register", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "jwt", Value: "fresh"})
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, testUserJSON)
	})
	s.api.handle("verify", userOK)

	result := s.manager.Register(
		context.Background(),
		"alice",
		"alice@example.com",
		"pw1",
		"pw1",
	)

	require.True(t, result.Success)
	require.Equal(t, AuthAuthenticated, s.manager.Session().Status)
}

func TestRegisterRejectedWithServerDetail(t *testing.T) {
	s := newTestSession(t)
	s.api.handle("register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"detail": "Passwords do not match"}`)
	})

	result := s.manager.Register(
		context.Background(),
		"alice",
		"alice@example.com",
		"pw1",
		"pw2",
	)

	require.False(t, result.Success)
	require.Equal(t, "Passwords do not match", result.Error)
}

func TestLogoutClearsLocalState(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=existing")
	s.api.handle("verify", userOK)
	s.manager.Initialize(context.Background())
	s.api.handle("logout", logoutOK)

	s.manager.Logout(context.Background())

	session := s.manager.Session()
	require.Equal(t, AuthAnonymous, session.Status)
	require.Nil(t, session.CurrentUser)
	require.False(t, s.creds.HasCredential())
	require.Equal(t, 1, s.loggedOut())
}

func TestLogoutIsBestEffort(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=existing")
	// No logout handler registered-- the server-side notification fails
	s.manager.Logout(context.Background())

	require.Equal(t, AuthAnonymous, s.manager.Session().Status)
	require.False(t, s.creds.HasCredential())
	require.Equal(t, 1, s.loggedOut())
}

func TestFetchCurrentUserDoesNotAlterAuthStatus(t *testing.T) {
	s := newTestSession(t)
	s.api.handle("me", userOK)

	s.manager.FetchCurrentUser(context.Background())

	session := s.manager.Session()
	require.Equal(t, AuthUnknown, session.Status)
	require.NotNil(t, session.CurrentUser)
	require.Equal(t, "alice", session.CurrentUser.Username)
}

func TestFetchCurrentUserSwallowsFailure(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=existing")
	s.api.handle("verify", userOK)
	s.manager.Initialize(context.Background())
	s.api.handle("me", denied)
	s.api.handle("refresh", denied)
	s.api.handle("logout", logoutOK)

	s.manager.FetchCurrentUser(context.Background())

	// The failed fetch triggered recovery, which failed too; the calling
	// flow was still not disrupted
	require.Equal(t, AuthAnonymous, s.manager.Session().Status)
}

func TestInterceptorRecoversExpiredCredential(t *testing.T) {
	s := newTestSession(t)
	meAttempts := 0
	s.api.handle("me", func(w http.ResponseWriter, r *http.Request) {
		meAttempts++
		if meAttempts == 1 {
			denied(w, r)
			return
		}
		require.Equal(t, "Bearer renewed", r.Header.Get("Authorization"))
		userOK(w, r)
	})
	s.api.handle("refresh", refreshOK)
	s.api.handle("verify", userOK)
	s.creds.SyncCookies("jwt=expired")

	s.manager.FetchCurrentUser(context.Background())

	session := s.manager.Session()
	require.NotNil(t, session.CurrentUser)
	require.Equal(t, 2, s.api.count("me"))
	require.Equal(t, 1, s.api.count("refresh"))
	require.Zero(t, s.loggedOut())
}

func TestInterceptorLogsOutWhenRefreshFails(t *testing.T) {
	s := newTestSession(t)
	s.api.handle("me", denied)
	s.api.handle("refresh", denied)
	s.api.handle("logout", logoutOK)
	s.creds.SyncCookies("jwt=expired")

	_, err := s.manager.Client().Users().Me(context.Background())

	require.Error(t, err)
	require.IsType(t, &ErrAuthorization{}, err)
	require.Equal(t, 1, s.api.count("me"))
	require.Equal(t, 1, s.api.count("refresh"))
	require.Equal(t, 1, s.api.count("logout"))
	require.Equal(t, 1, s.loggedOut())
	require.Equal(t, AuthAnonymous, s.manager.Session().Status)
}

func TestInterceptorShortCircuitsDuringLogout(t *testing.T) {
	s := newTestSession(t)
	s.creds.SyncCookies("jwt=existing")
	logoutEntered := make(chan struct{})
	logoutRelease := make(chan struct{})
	s.api.handle("logout", func(w http.ResponseWriter, r *http.Request) {
		close(logoutEntered)
		<-logoutRelease
		logoutOK(w, r)
	})
	s.api.handle("me", denied)

	logoutDone := make(chan struct{})
	go func() {
		s.manager.Logout(context.Background())
		close(logoutDone)
	}()
	<-logoutEntered

	// An authorization failure while a logout is in progress must not start
	// a refresh-recovery attempt
	_, err := s.manager.Client().Users().Me(context.Background())
	require.Error(t, err)
	require.IsType(t, &ErrAuthorization{}, err)
	require.Zero(t, s.api.count("refresh"))

	close(logoutRelease)
	select {
	case <-logoutDone:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for logout to complete")
	}
	require.Equal(t, 1, s.loggedOut())
}
