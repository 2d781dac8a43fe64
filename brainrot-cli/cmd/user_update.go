package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/brainrot-gen/brainrot"
)

func userUpdate(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("user update requires no arguments")
	}

	// Command-specific flags
	update := brainrot.UserUpdate{
		Username: c.String(flagUsername),
		Email:    c.String(flagEmail),
		Password: c.String(flagPassword),
	}
	if update == (brainrot.UserUpdate{}) {
		return errors.New(
			"nothing to update; please use --username, --email, or --password",
		)
	}

	sessionManager, err := requireSession(c)
	if err != nil {
		return err
	}

	user, err := sessionManager.Client().Users().Update(c.Context, update)
	if err != nil {
		return err
	}

	fmt.Printf("Updated user %s.\n", user.Username)

	return nil
}
