package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/brainrot-gen/brainrot"
)

func getSessionManager(c *cli.Context) (*brainrot.SessionManager, error) {
	config, err := getConfig()
	if err != nil {
		return nil, errors.Wrap(err, "error retrieving configuration")
	}
	return newSessionManager(c, config.APIAddress)
}

func newSessionManager(
	c *cli.Context,
	apiAddress string,
) (*brainrot.SessionManager, error) {
	sessionFile, err := brainrot.DefaultSessionFile()
	if err != nil {
		return nil, errors.Wrap(err, "error locating session file")
	}
	return brainrot.NewSessionManager(
		apiAddress,
		brainrot.NewCredentialStore(sessionFile),
		c.Bool(flagInsecure),
		func() {
			fmt.Println("Your session has ended. Please log in again.")
		},
	), nil
}

// requireSession initializes session state and fails unless the user is
// authenticated.
func requireSession(
	c *cli.Context,
) (*brainrot.SessionManager, error) {
	sessionManager, err := getSessionManager(c)
	if err != nil {
		return nil, err
	}
	sessionManager.Initialize(c.Context)
	if sessionManager.Session().Status != brainrot.AuthAuthenticated {
		return nil, errors.New(
			"you are not logged in; please use `brainrot login` to continue",
		)
	}
	return sessionManager, nil
}
