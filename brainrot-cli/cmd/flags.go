package main

import "github.com/urfave/cli/v2"

const (
	flagBrowse     = "browse"
	flagEmail      = "email"
	flagFile       = "file"
	flagGoogle     = "google"
	flagInsecure   = "insecure"
	flagOptions    = "options"
	flagOutput     = "output"
	flagOutputFile = "output-file"
	flagPassword   = "password"
	flagTitle      = "title"
	flagUsername   = "username"
	flagVoice      = "voice"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage:   "Return output in another format. Supported formats: table, json",
		Value:   "table",
	}
)
