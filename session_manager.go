package brainrot

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

const (
	loginFailureMessage    = "Failed to login. Try again."
	registerFailureMessage = "Failed to register. Try again."
)

// SessionManager mediates all authentication-related operations against the
// Account API, owns the client-side Session, and recovers transparently from
// expired credentials. It is the single writer of session state; everything
// else only reads it.
//
// At most one verification and at most one refresh may be in flight at any
// time. A duplicate call arriving while one is outstanding receives an
// immediate failure rather than queuing-- deliberate load shedding, not a
// protocol requirement.
type SessionManager struct {
	mu              sync.Mutex
	session         Session
	verifyInFlight  bool
	refreshInFlight bool
	loggingOut      bool
	initialized     bool

	client   *client
	creds    *CredentialStore
	onLogout func()
}

// NewSessionManager returns a SessionManager backed by a new Client for the
// API server at the given address. The onLogout hook, if non-nil, runs after
// every completed logout-- the process-level stand-in for navigating back to
// the start screen. The manager's Client is available via Client() for
// non-authentication API calls; those calls get silent expired-credential
// recovery for free.
func NewSessionManager(
	apiAddress string,
	creds *CredentialStore,
	allowInsecure bool,
	onLogout func(),
) *SessionManager {
	s := &SessionManager{
		client:   newClient(apiAddress, creds, allowInsecure),
		creds:    creds,
		onLogout: onLogout,
	}
	s.client.authTransport.recoverer = s
	s.client.uploadsClient.onGenerate = func(ctx context.Context) {
		// A generation call may have changed the credit balance
		s.FetchCurrentUser(ctx)
	}
	return s
}

// Client returns the API client the manager mediates.
func (s *SessionManager) Client() Client {
	return s.client
}

// Session returns a snapshot of the current session state.
func (s *SessionManager) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Initialize establishes initial session state. It runs its sequence at most
// once per manager lifetime; repeated calls return immediately. Without an
// auth cookie marker the session is anonymous and no network call is made.
// With one, the manager verifies, falls back to a refresh, and finally gives
// up via logout.
func (s *SessionManager) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	if !s.creds.HasCredential() {
		s.mu.Lock()
		s.session.Status = AuthAnonymous
		s.mu.Unlock()
		return
	}
	// Initialization drives its own recovery chain, so the interceptor
	// stays out of the way here
	ctx = withoutAuthRetry(ctx)
	if s.Verify(ctx) {
		return
	}
	if s.RefreshAccessToken(ctx) {
		return
	}
	s.Logout(ctx)
}

// Verify confirms the ambient credential with the server and, on success,
// replaces the current user and marks the session authenticated. On any
// failure prior state is left untouched. Returns false immediately if a
// verification is already in flight.
func (s *SessionManager) Verify(ctx context.Context) bool {
	s.mu.Lock()
	if s.verifyInFlight {
		s.mu.Unlock()
		return false
	}
	s.verifyInFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.verifyInFlight = false
		s.mu.Unlock()
	}()

	user, err := s.client.Users().Verify(ctx)
	if err != nil {
		glog.Errorf("error verifying session: %s", err)
		return false
	}
	s.mu.Lock()
	s.session.Status = AuthAuthenticated
	s.session.CurrentUser = &user
	s.mu.Unlock()
	return true
}

// RefreshAccessToken exchanges the ambient refresh credential for a renewed
// access credential, then re-runs verification to repopulate the current
// user. Returns false immediately if a refresh is already in flight.
func (s *SessionManager) RefreshAccessToken(ctx context.Context) bool {
	s.mu.Lock()
	if s.refreshInFlight {
		s.mu.Unlock()
		return false
	}
	s.refreshInFlight = true
	s.mu.Unlock()

	err := s.client.Users().Refresh(withoutAuthRetry(ctx))

	s.mu.Lock()
	s.refreshInFlight = false
	s.mu.Unlock()

	if err != nil {
		glog.Errorf("error refreshing access token: %s", err)
		return false
	}
	s.Verify(withoutAuthRetry(ctx))
	return true
}

// Login authenticates with the given credentials. The login response alone
// is not trusted as proof of a usable session; overall success additionally
// requires the follow-up verification to succeed.
func (s *SessionManager) Login(
	ctx context.Context,
	email string,
	password string,
) LoginResult {
	if _, err := s.client.Users().Login(
		withoutAuthRetry(ctx),
		email,
		password,
	); err != nil {
		glog.Errorf("error logging in: %s", err)
		return failureResult(err, loginFailureMessage)
	}
	if !s.Verify(withoutAuthRetry(ctx)) {
		return LoginResult{Error: loginFailureMessage}
	}
	return LoginResult{Success: true}
}

// Register creates a new account. Matching of password and confirmation is
// the caller's responsibility; the confirmation still travels to the server,
// which enforces it independently. The same trust chain as Login applies.
func (s *SessionManager) Register(
	ctx context.Context,
	username string,
	email string,
	password string,
	confirmPassword string,
) LoginResult {
	if _, err := s.client.Users().Register(
		withoutAuthRetry(ctx),
		username,
		email,
		password,
		confirmPassword,
	); err != nil {
		glog.Errorf("error registering: %s", err)
		return failureResult(err, registerFailureMessage)
	}
	if !s.Verify(withoutAuthRetry(ctx)) {
		return LoginResult{Error: registerFailureMessage}
	}
	return LoginResult{Success: true}
}

// Logout notifies the server (best-effort), clears local session state and
// persisted markers, and runs the onLogout hook. A logout already in
// progress makes this a no-op, and the failure interceptor will not attempt
// recovery while one runs.
func (s *SessionManager) Logout(ctx context.Context) {
	s.mu.Lock()
	if s.loggingOut {
		s.mu.Unlock()
		return
	}
	s.loggingOut = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loggingOut = false
		s.mu.Unlock()
	}()

	if err := s.client.Users().Logout(withoutAuthRetry(ctx)); err != nil {
		glog.Errorf("error notifying API server of logout: %s", err)
	}
	s.mu.Lock()
	s.session = Session{Status: AuthAnonymous}
	s.mu.Unlock()
	s.creds.Clear()
	if s.onLogout != nil {
		s.onLogout()
	}
}

// FetchCurrentUser refreshes the current user record only-- typically to
// resynchronize the credit balance after a generation call. It never alters
// authentication status; failure is logged and swallowed.
func (s *SessionManager) FetchCurrentUser(ctx context.Context) {
	user, err := s.client.Users().Me(ctx)
	if err != nil {
		glog.Errorf("error fetching current user: %s", err)
		return
	}
	s.mu.Lock()
	s.session.CurrentUser = &user
	s.mu.Unlock()
}

// recoverAuthFailure implements authRecoverer. A rejected authenticated
// request lands here: refresh and report success so the transport can replay
// the request, or give up via logout.
func (s *SessionManager) recoverAuthFailure(ctx context.Context) bool {
	if s.RefreshAccessToken(ctx) {
		return true
	}
	s.Logout(ctx)
	return false
}

func (s *SessionManager) isLoggingOut() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggingOut
}

func failureResult(err error, genericMessage string) LoginResult {
	if detail := errorDetail(err); detail != "" {
		return LoginResult{Error: detail}
	}
	return LoginResult{Error: genericMessage}
}
