package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func whoami(c *cli.Context) error {
	// Args
	if c.Args().Len() != 0 {
		return errors.New("whoami requires no arguments")
	}

	// Command-specific flags
	output := c.String(flagOutput)

	if err := validateOutputFormat(output); err != nil {
		return err
	}

	sessionManager, err := requireSession(c)
	if err != nil {
		return err
	}

	user := sessionManager.Session().CurrentUser

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("USERNAME", "EMAIL", "CREDIT")
		table.AddRow(
			user.Username,
			user.Email,
			user.Credit,
		)
		fmt.Println(table)

	case "json":
		prettyJSON, err := json.MarshalIndent(user, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from whoami operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}
