package brainrot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type contextKey string

// noAuthRetryKey marks requests that must never trigger the
// authorization-failure interceptor: the refresh and logout calls
// themselves, and any call issued from inside a recovery attempt. Without
// the marker, a rejected refresh would recurse into another refresh.
const noAuthRetryKey contextKey = "brainrot-no-auth-retry"

func withoutAuthRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, noAuthRetryKey, true)
}

func authRetryDisabled(ctx context.Context) bool {
	disabled, ok := ctx.Value(noAuthRetryKey).(bool)
	return ok && disabled
}

// authRecoverer is the slice of the session manager the transport layer
// needs for silent expired-credential recovery.
type authRecoverer interface {
	// recoverAuthFailure attempts a token refresh, falling back to logout.
	// It returns true only if the refresh succeeded.
	recoverAuthFailure(ctx context.Context) bool
	isLoggingOut() bool
}

// cookieSyncTransport mirrors any cookies set by a response into the
// credential store before the response is seen by anyone else.
type cookieSyncTransport struct {
	base  http.RoundTripper
	creds *CredentialStore
}

func (t *cookieSyncTransport) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if cookies := resp.Cookies(); len(cookies) > 0 {
		pairs := make([]string, len(cookies))
		for i, cookie := range cookies {
			pairs[i] = fmt.Sprintf("%s=%s", cookie.Name, cookie.Value)
		}
		t.creds.SyncCookies(strings.Join(pairs, "; "))
	}
	return resp, nil
}

// authRetryTransport inspects every response and, on an authorization
// failure, attempts silent recovery: refresh the access credential and
// replay the request once. If a logout is already in progress the failure
// passes through untouched. If the refresh fails, the recoverer performs a
// logout and the original failure response is returned to the caller.
type authRetryTransport struct {
	base      http.RoundTripper
	creds     *CredentialStore
	jar       http.CookieJar
	recoverer authRecoverer
}

func (t *authRetryTransport) RoundTrip(
	req *http.Request,
) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized &&
		resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}
	if t.recoverer == nil ||
		authRetryDisabled(req.Context()) ||
		t.recoverer.isLoggingOut() {
		return resp, nil
	}
	if !t.recoverer.recoverAuthFailure(req.Context()) {
		return resp, nil
	}
	retryReq := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return resp, nil
		}
		retryReq.Body = body
	}
	// The renewed credential supersedes whatever the original request
	// carried, on both transports
	if retryReq.Header.Get("Authorization") != "" {
		retryReq.Header.Set(
			"Authorization",
			fmt.Sprintf("Bearer %s", t.creds.Token()),
		)
	}
	if t.jar != nil {
		retryReq.Header.Del("Cookie")
		for _, cookie := range t.jar.Cookies(retryReq.URL) {
			retryReq.AddCookie(cookie)
		}
	}
	resp.Body.Close()
	return t.base.RoundTrip(retryReq)
}
