package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func login(c *cli.Context) error {
	// Args
	if c.Args().Len() != 1 {
		return errors.New("login requires one argument-- the API server address")
	}
	address := c.Args().Get(0)
	email := c.String(flagEmail)
	password := c.String(flagPassword)
	googleLogin := c.Bool(flagGoogle)
	browseToAuthURL := c.Bool(flagBrowse)

	sessionManager, err := newSessionManager(c, address)
	if err != nil {
		return err
	}

	if googleLogin {
		authURL := sessionManager.Client().Users().GoogleLoginURL()
		if err := saveConfig(
			&config{
				APIAddress: address,
			},
		); err != nil {
			return errors.Wrap(err, "error persisting configuration")
		}
		if browseToAuthURL {
			if err := openInBrowser(authURL); err != nil {
				return errors.Wrapf(
					err,
					"Error opening authentication URL using the system's default "+
						"web browser.\n\nPlease visit  %s  to complete "+
						"authentication.\n",
					authURL,
				)
			}
			return nil
		}
		fmt.Printf("Please visit  %s  to complete authentication.\n", authURL)
		return nil
	}

	if email == "" {
		return errors.New("no email address was provided; please use --email")
	}
	if password, err = promptIfEmpty(password, "Password? "); err != nil {
		return err
	}

	result := sessionManager.Login(c.Context, email, password)
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
	fmt.Printf("\nYou are logged in as %s.\n", session.CurrentUser.Email)

	return nil
}

func promptIfEmpty(value, prompt string) (string, error) {
	reader := bufio.NewReader(os.Stdin)
	var err error
	for {
		value = strings.TrimSpace(value)
		if value != "" {
			return value, nil
		}
		fmt.Print(prompt)
		if value, err = reader.ReadString('\n'); err != nil {
			return "", errors.Wrap(err, "error reading from stdin")
		}
	}
}

func openInBrowser(url string) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("xdg-open", url).Start()
	case "windows":
		return exec.Command(
			"rundll32",
			"url.dll,FileProtocolHandler",
			url,
		).Start()
	case "darwin":
		return exec.Command("open", url).Start()
	}
	return errors.New("unsupported OS")
}
