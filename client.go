package brainrot

import (
	"crypto/tls"
	"net/http"
	"net/http/cookiejar"
)

// Client is the API surface of the brainrot server.
type Client interface {
	Users() UsersClient
	Uploads() UploadsClient
}

type client struct {
	usersClient   UsersClient
	uploadsClient *uploadsClient
	authTransport *authRetryTransport
}

// NewClient returns a Client for the API server at the given address.
// Session cookies set by the server are captured in a shared cookie jar and
// mirrored into the provided credential store, so credentials ride along
// ambiently on every subsequent request.
func NewClient(
	apiAddress string,
	creds *CredentialStore,
	allowInsecure bool,
) Client {
	return newClient(apiAddress, creds, allowInsecure)
}

func newClient(
	apiAddress string,
	creds *CredentialStore,
	allowInsecure bool,
) *client {
	// cookiejar.New never returns an error with nil options
	jar, _ := cookiejar.New(nil)
	authTransport := &authRetryTransport{
		base: &cookieSyncTransport{
			base: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: allowInsecure,
				},
			},
			creds: creds,
		},
		creds: creds,
		jar:   jar,
	}
	baseClient := &baseClient{
		apiAddress: apiAddress,
		creds:      creds,
		httpClient: &http.Client{
			Jar:       jar,
			Transport: authTransport,
		},
	}
	return &client{
		usersClient:   newUsersClient(baseClient),
		uploadsClient: newUploadsClient(baseClient),
		authTransport: authTransport,
	}
}

func (c *client) Users() UsersClient {
	return c.usersClient
}

func (c *client) Uploads() UploadsClient {
	return c.uploadsClient
}
