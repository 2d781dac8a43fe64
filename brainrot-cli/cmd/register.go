package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func register(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New(
			"register requires one argument-- the API server address",
		)
	}
	address := c.Args().Get(0)
	username := c.String(flagUsername)
	email := c.String(flagEmail)
	password := c.String(flagPassword)

	if username == "" {
		return errors.New("no username was provided; please use --username")
	}
	if email == "" {
		return errors.New("no email address was provided; please use --email")
	}

	var err error
	if password, err = promptIfEmpty(password, "Password? "); err != nil {
		return err
	}
	confirmPassword, err := promptIfEmpty("", "Confirm password? ")
	if err != nil {
		return err
	}
	// The server enforces this independently, but there is no point in a
	// round trip that is sure to fail
	if password != confirmPassword {
		return errors.New("passwords do not match")
	}

	sessionManager, err := newSessionManager(c, address)
	if err != nil {
		return err
	}

	result := sessionManager.Register(
		c.Context,
		username,
		email,
		password,
		confirmPassword,
	)
	if !result.Success {
		return errors.New(result.Error)
	}

	if err := saveConfig(
		&config{
			APIAddress: address,
		},
	); err != nil {
		return errors.Wrap(err, "error persisting configuration")
	}

	session := sessionManager.Session()
	fmt.Printf("\nWelcome, %s! You are logged in.\n", session.CurrentUser.Username)

	return nil
}
