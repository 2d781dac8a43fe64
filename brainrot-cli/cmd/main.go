package main

import (
	"fmt"
	"os"

	"github.com/brainrot-gen/brainrot/pkg/signals"
	"github.com/brainrot-gen/brainrot/pkg/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "brainrot"
	app.Usage = "Turn text into brain rot videos"
	app.Version = fmt.Sprintf("%s (%s)", version.Version(), version.Commit())
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage:   "Allow insecure API server connections when using TLS",
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:      "login",
			Usage:     "Log in to a brainrot API server",
			ArgsUsage: "API_SERVER_ADDRESS",
			Description: "Authenticates with email and password by default. " +
				"Use --google to initiate authentication via Google instead.",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagEmail,
					Aliases: []string{"e"},
					Usage:   "The email address to log in with",
				},
				&cli.StringFlag{
					Name:    flagPassword,
					Aliases: []string{"p"},
					Usage: "Specify the password non-interactively (will be " +
						"prompted for otherwise)",
				},
				&cli.BoolFlag{
					Name:    flagGoogle,
					Aliases: []string{"g"},
					Usage:   "Authenticate via Google instead of email/password",
				},
				&cli.BoolFlag{
					Name:    flagBrowse,
					Aliases: []string{"b"},
					Usage: "Use the system's default web browser to complete " +
						"authentication (only applicable when --google is used)",
				},
			},
			Action: login,
		},
		{
			Name:      "register",
			Usage:     "Create a new account and log in with it",
			ArgsUsage: "API_SERVER_ADDRESS",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagUsername,
					Aliases: []string{"u"},
					Usage:   "The username for the new account",
				},
				&cli.StringFlag{
					Name:    flagEmail,
					Aliases: []string{"e"},
					Usage:   "The email address for the new account",
				},
				&cli.StringFlag{
					Name:    flagPassword,
					Aliases: []string{"p"},
					Usage: "Specify the password non-interactively (will be " +
						"prompted for otherwise)",
				},
			},
			Action: register,
		},
		{
			Name:   "logout",
			Usage:  "Log out of the brainrot API server",
			Action: logout,
		},
		{
			Name:  "whoami",
			Usage: "Show the currently logged in user and credit balance",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: whoami,
		},
		{
			Name:  "user",
			Usage: "Manage the current user",
			Subcommands: []*cli.Command{
				{
					Name:  "update",
					Usage: "Update the current user's profile",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:    flagUsername,
							Aliases: []string{"u"},
							Usage:   "A new username",
						},
						&cli.StringFlag{
							Name:    flagEmail,
							Aliases: []string{"e"},
							Usage:   "A new email address",
						},
						&cli.StringFlag{
							Name:    flagPassword,
							Aliases: []string{"p"},
							Usage:   "A new password",
						},
					},
					Action: userUpdate,
				},
			},
		},
		{
			Name:      "generate",
			Usage:     "Generate a brain rot video from text",
			ArgsUsage: "[TEXT]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagTitle,
					Aliases: []string{"t"},
					Usage:   "The title of the generated video",
					Value:   "brainrot",
				},
				&cli.StringFlag{
					Name:  flagFile,
					Usage: "The location of a file containing the text (ignores " +
						"TEXT argument)",
				},
				&cli.StringFlag{
					Name: flagOptions,
					Usage: "The location of a JSON file containing subtitle, " +
						"video, and audio options",
				},
				&cli.StringFlag{
					Name:    flagVoice,
					Aliases: []string{"v"},
					Usage:   "The synthesized voice to use",
				},
				&cli.StringFlag{
					Name:    flagOutputFile,
					Aliases: []string{"o"},
					Usage: "Write the result to the specified file (a generated " +
						"name is used otherwise)",
				},
			},
			Action: generate,
		},
	}
	fmt.Println()
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
	fmt.Println()
}
