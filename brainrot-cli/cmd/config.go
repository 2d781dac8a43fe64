package main

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path"

	"github.com/kelseyhightower/envconfig"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/brainrot-gen/brainrot/pkg/file"
)

type config struct {
	APIAddress string `json:"apiAddress"`
}

// environment collects overrides from the process environment. Anything set
// there wins over the persisted config file.
type environment struct {
	APIAddress string `envconfig:"API_ADDRESS"`
}

func getConfig() (*config, error) {
	env := environment{}
	if err := envconfig.Process("brainrot", &env); err != nil {
		return nil, errors.Wrap(err, "error reading environment")
	}
	if env.APIAddress != "" {
		return &config{APIAddress: env.APIAddress}, nil
	}

	brainrotHome, err := getBrainrotHome()
	if err != nil {
		return nil, errors.Wrap(err, "error finding brainrot home")
	}
	brainrotConfigFile := path.Join(brainrotHome, "config")
	if !file.Exists(brainrotConfigFile) {
		return nil, errors.Errorf(
			"no brainrot configuration was found at %s; please use "+
				"`brainrot login` to continue\n",
			brainrotConfigFile,
		)
	}

	configBytes, err := ioutil.ReadFile(brainrotConfigFile)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error reading brainrot config file at %s",
			brainrotConfigFile,
		)
	}

	config := &config{}
	if err := json.Unmarshal(configBytes, config); err != nil {
		return nil, errors.Wrapf(
			err,
			"error parsing brainrot config file at %s",
			brainrotConfigFile,
		)
	}

	return config, nil
}

func saveConfig(config *config) error {
	brainrotHome, err := getBrainrotHome()
	if err != nil {
		return errors.Wrap(err, "error finding brainrot home")
	}
	if _, err := os.Stat(brainrotHome); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(
				err,
				"error checking for existence of brainrot home at %s",
				brainrotHome,
			)
		}
		// The directory doesn't exist-- create it
		if err := os.MkdirAll(brainrotHome, 0755); err != nil {
			return errors.Wrapf(
				err,
				"error creating brainrot home at %s",
				brainrotHome,
			)
		}
	}
	brainrotConfigFile := path.Join(brainrotHome, "config")

	configBytes, err := json.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}
	if err :=
		ioutil.WriteFile(brainrotConfigFile, configBytes, 0644); err != nil {
		return errors.Wrapf(err, "error writing to %s", brainrotConfigFile)
	}
	return nil
}

func getBrainrotHome() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "error locating user's home directory")
	}

	return path.Join(homeDir, ".brainrot"), nil
}
