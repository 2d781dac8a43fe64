package brainrot

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// UsersClient talks to the Account API. All operations rely on ambient
// credential transport-- cookies attached automatically by the shared
// cookie jar-- in addition to the bearer header where one is held.
type UsersClient interface {
	// Register creates a new user account. On success the server attaches
	// session credentials to the response and returns the new user.
	Register(
		ctx context.Context,
		username string,
		email string,
		password string,
		confirmPassword string,
	) (UserProfile, error)
	// Login exchanges credentials for a session. On success the server
	// attaches session credentials to the response and returns the user.
	Login(ctx context.Context, email, password string) (UserProfile, error)
	// Verify confirms the ambient credential is still valid and returns the
	// associated user.
	Verify(ctx context.Context) (UserProfile, error)
	// Me returns the current user record.
	Me(ctx context.Context) (UserProfile, error)
	// Update modifies the current user record and returns the result.
	Update(ctx context.Context, update UserUpdate) (UserProfile, error)
	// Refresh exchanges the ambient refresh credential for a renewed access
	// credential. Success requires both the expected HTTP status AND the
	// success marker in the response body.
	Refresh(ctx context.Context) error
	// Logout notifies the server that the session should be invalidated.
	Logout(ctx context.Context) error
	// GoogleLoginURL returns the address a browser should visit to initiate
	// the external OAuth flow. This is a navigation target, not an API call.
	GoogleLoginURL() string
}

type usersClient struct {
	*baseClient
}

func newUsersClient(baseClient *baseClient) UsersClient {
	return &usersClient{
		baseClient: baseClient,
	}
}

func (u *usersClient) Register(
	ctx context.Context,
	username string,
	email string,
	password string,
	confirmPassword string,
) (UserProfile, error) {
	user := UserProfile{}
	// The confirmation password travels under a snake_case wire name; the
	// server rejects the request without it.
	reqBody := struct {
		Username        string `json:"username"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirmPassword,
	}
	if err := u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "users/register",
			reqBodyObj:  reqBody,
			successCode: http.StatusCreated,
			respObj:     &user,
		},
	); err != nil {
		return user, err
	}
	return user, validateUserPayload(user)
}

func (u *usersClient) Login(
	ctx context.Context,
	email string,
	password string,
) (UserProfile, error) {
	user := UserProfile{}
	reqBody := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Email:    email,
		Password: password,
	}
	if err := u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "users/login",
			reqBodyObj:  reqBody,
			successCode: http.StatusCreated,
			respObj:     &user,
		},
	); err != nil {
		return user, err
	}
	return user, validateUserPayload(user)
}

func (u *usersClient) Verify(ctx context.Context) (UserProfile, error) {
	user := UserProfile{}
	if err := u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodGet,
			path:        "users/verify",
			authHeaders: u.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &user,
		},
	); err != nil {
		return user, err
	}
	return user, validateUserPayload(user)
}

func (u *usersClient) Me(ctx context.Context) (UserProfile, error) {
	user := UserProfile{}
	if err := u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodGet,
			path:        "users/me",
			authHeaders: u.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
			respObj:     &user,
		},
	); err != nil {
		return user, err
	}
	return user, validateUserPayload(user)
}

func (u *usersClient) Update(
	ctx context.Context,
	update UserUpdate,
) (UserProfile, error) {
	user := UserProfile{}
	if err := u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPatch,
			path:        "users/me",
			authHeaders: u.bearerTokenAuthHeaders(),
			reqBodyObj:  update,
			successCode: http.StatusOK,
			respObj:     &user,
		},
	); err != nil {
		return user, err
	}
	return user, validateUserPayload(user)
}

func (u *usersClient) Refresh(ctx context.Context) error {
	respBody := struct {
		Status string `json:"status"`
	}{}
	if err := u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "users/refresh",
			successCode: http.StatusCreated,
			respObj:     &respBody,
		},
	); err != nil {
		return err
	}
	// A body that disagrees with the status layer is treated conservatively
	// as overall failure
	if respBody.Status != "success" {
		return errors.Errorf(
			"refresh response carried unexpected status %q",
			respBody.Status,
		)
	}
	return nil
}

func (u *usersClient) Logout(ctx context.Context) error {
	return u.executeAPIRequest(
		ctx,
		apiRequest{
			method:      http.MethodPost,
			path:        "users/logout",
			authHeaders: u.bearerTokenAuthHeaders(),
			successCode: http.StatusOK,
		},
	)
}

func (u *usersClient) GoogleLoginURL() string {
	return fmt.Sprintf("%s/users/login/google", u.apiAddress)
}

// validateUserPayload rejects nominally successful responses whose body
// lacks a usable user object.
func validateUserPayload(user UserProfile) error {
	if user.ID == "" && user.Email == "" {
		return errors.New("response contained an empty user payload")
	}
	return nil
}
