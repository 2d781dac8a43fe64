package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/urfave/cli/v2"
	"github.com/xeipuuv/gojsonschema"

	"github.com/brainrot-gen/brainrot"
)

// generateOptions is the shape of the --options file: the three nested
// option objects the Generation API accepts, all optional.
type generateOptions struct {
	SubtitleOptions brainrot.SubtitleOptions `json:"subtitle_options"`
	VideoOptions    brainrot.VideoOptions    `json:"video_options"`
	AudioOptions    brainrot.AudioOptions    `json:"audio_options"`
}

const generateOptionsSchema = `
{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"subtitle_options": {
			"type": "object"
		},
		"video_options": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"audio_fadein": { "type": "number", "minimum": 0 },
				"audio_fadeout": { "type": "number", "minimum": 0 },
				"video_fadein": { "type": "number", "minimum": 0 },
				"video_fadeout": { "type": "number", "minimum": 0 }
			}
		},
		"audio_options": {
			"type": "object",
			"additionalProperties": false,
			"properties": {
				"voice": {
					"type": "string",
					"enum": ["alloy", "echo", "fable", "onyx", "nova", "shimmer"]
				}
			}
		}
	}
}`

func generate(c *cli.Context) error {
	// Args and command-specific flags
	title := c.String(flagTitle)
	textFile := c.String(flagFile)
	optionsFile := c.String(flagOptions)
	voice := c.String(flagVoice)
	outputFile := c.String(flagOutputFile)

	var text string
	if textFile != "" {
		textBytes, err := ioutil.ReadFile(textFile)
		if err != nil {
			return errors.Wrapf(err, "error reading text file %s", textFile)
		}
		text = string(textBytes)
	} else {
		if c.Args().Len() != 1 {
			return errors.New(
				"generate requires one argument-- the text to render (or use " +
					"--file)",
			)
		}
		text = c.Args().Get(0)
	}
	if strings.TrimSpace(text) == "" {
		return errors.New("there is no text to render")
	}

	options := generateOptions{}
	if optionsFile != "" {
		optionsBytes, err := ioutil.ReadFile(optionsFile)
		if err != nil {
			return errors.Wrapf(err, "error reading options file %s", optionsFile)
		}
		if err := validateGenerateOptions(optionsBytes); err != nil {
			return err
		}
		if err := json.Unmarshal(optionsBytes, &options); err != nil {
			return errors.Wrapf(err, "error parsing options file %s", optionsFile)
		}
	}
	if voice != "" {
		options.AudioOptions.Voice = voice
	}

	sessionManager, err := requireSession(c)
	if err != nil {
		return err
	}

	result, err := sessionManager.Client().Uploads().GenerateBrainRot(
		c.Context,
		brainrot.GenerateRequest{
			Title:           title,
			Text:            text,
			SubtitleOptions: options.SubtitleOptions,
			VideoOptions:    options.VideoOptions,
			AudioOptions:    options.AudioOptions,
		},
	)
	if err != nil {
		return err
	}

	if outputFile == "" {
		name := result.FolderID
		if name == "" {
			name = uuid.NewV4().String()
		}
		outputFile = name + extensionForContentType(result.ContentType)
	}
	if err := ioutil.WriteFile(outputFile, result.Data, 0644); err != nil {
		return errors.Wrapf(err, "error writing result to %s", outputFile)
	}

	fmt.Printf("Wrote %s.\n", outputFile)
	if user := sessionManager.Session().CurrentUser; user != nil {
		fmt.Printf("Remaining credit: %d.\n", user.Credit)
	}

	return nil
}

func validateGenerateOptions(optionsBytes []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(generateOptionsSchema),
		gojsonschema.NewBytesLoader(optionsBytes),
	)
	if err != nil {
		return errors.Wrap(err, "error validating options")
	}
	if !result.Valid() {
		verrStrs := make([]string, len(result.Errors()))
		for i, verr := range result.Errors() {
			verrStrs[i] = verr.String()
		}
		return errors.Errorf(
			"options failed validation: %s",
			strings.Join(verrStrs, "; "),
		)
	}
	return nil
}

func extensionForContentType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "video/mp4"):
		return ".mp4"
	case strings.HasPrefix(contentType, "application/zip"):
		return ".zip"
	case strings.HasPrefix(contentType, "text/ass"):
		return ".ass"
	case strings.HasPrefix(contentType, "audio/"):
		return ".wav"
	}
	return ""
}
