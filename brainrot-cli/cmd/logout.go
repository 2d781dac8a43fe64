package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func logout(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("logout requires no arguments")
	}

	sessionManager, err := getSessionManager(c)
	if err != nil {
		return errors.Wrap(err, "error getting brainrot session manager")
	}

	// Logout notifies the server on a best-effort basis and always clears
	// local session state.
	sessionManager.Logout(c.Context)

	fmt.Println("Logout was successful.")

	return nil
}
