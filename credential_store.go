package brainrot

import (
	"encoding/json"
	"io/ioutil"
	"net/url"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/mitchellh/go-homedir"

	"github.com/brainrot-gen/brainrot/pkg/file"
)

const (
	credentialEntry = "jwt"
	profileEntry    = "userInfo"

	sessionFileName = "session"
)

// CredentialStore mirrors the session cookies the API server sets into a
// small set of named local entries, optionally persisted to disk so a
// subsequent process start can decide whether attempting verification is
// worthwhile. It is a startup cache only-- once verification completes, the
// server is the authority on session state.
type CredentialStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
}

// NewCredentialStore returns a store persisted at the given path. An empty
// path yields a purely in-memory store. If a persisted file exists but
// cannot be read or parsed, it is ignored-- the store degrades to empty.
func NewCredentialStore(path string) *CredentialStore {
	c := &CredentialStore{
		path:    path,
		entries: map[string]string{},
	}
	if path != "" && file.Exists(path) {
		entriesBytes, err := ioutil.ReadFile(path)
		if err != nil {
			glog.Errorf("error reading persisted session from %s: %s", path, err)
			return c
		}
		if err := json.Unmarshal(entriesBytes, &c.entries); err != nil {
			glog.Errorf("error parsing persisted session from %s: %s", path, err)
			c.entries = map[string]string{}
		}
	}
	return c
}

// DefaultSessionFile returns the conventional location of the persisted
// session file under the user's home directory.
func DefaultSessionFile() (string, error) {
	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return path.Join(homeDir, ".brainrot", sessionFileName), nil
}

// SyncCookies parses a raw cookie string of the form "k1=v1; k2=v2" and
// mirrors the session-relevant entries into the store. Entries are split on
// the first "=" only; entries with no "=" are tolerated. Values are
// URL-decoded; stray quote characters are stripped from the credential; an
// octal-escaped comma sequence inside the profile payload is unescaped
// before the payload is parsed as JSON. SyncCookies is idempotent and never
// returns an error-- malformed input is logged and skipped.
func (c *CredentialStore) SyncCookies(raw string) {
	for _, entry := range strings.Split(raw, "; ") {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key, value := parts[0], parts[1]
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			glog.Errorf("error decoding %s cookie: %s", key, err)
			continue
		}
		switch key {
		case credentialEntry:
			// Remove extraneous quotes some server responses wrap the
			// credential in
			c.set(credentialEntry, strings.ReplaceAll(decoded, `"`, ""))
		case profileEntry:
			payload := strings.ReplaceAll(decoded, `\054`, ",")
			profile := UserProfile{}
			if err := json.Unmarshal([]byte(payload), &profile); err != nil {
				// Some servers wrap the JSON payload in an additional layer
				// of quoting
				var unwrapped string
				if err2 := json.Unmarshal([]byte(payload), &unwrapped); err2 != nil ||
					json.Unmarshal([]byte(unwrapped), &profile) != nil {
					glog.Errorf("error parsing %s cookie: %s", profileEntry, err)
					continue
				}
				payload = unwrapped
			}
			c.set(profileEntry, payload)
		}
	}
}

// Token returns the cached access credential, or the empty string when none
// is held.
func (c *CredentialStore) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries[credentialEntry]
}

// Profile returns the cached user profile, if any. The cached profile is
// only a hint-- authoritative user data comes from verification.
func (c *CredentialStore) Profile() (UserProfile, bool) {
	c.mu.Lock()
	payload, ok := c.entries[profileEntry]
	c.mu.Unlock()
	if !ok {
		return UserProfile{}, false
	}
	profile := UserProfile{}
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return UserProfile{}, false
	}
	return profile, true
}

// HasCredential indicates whether an access credential marker is present.
// The marker's mere presence means a plausible session exists; its value is
// never interpreted by the client.
func (c *CredentialStore) HasCredential() bool {
	return c.Token() != ""
}

// Clear drops all entries and removes the persisted file, if any.
func (c *CredentialStore) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]string{}
	if c.path != "" {
		if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
			glog.Errorf("error removing persisted session at %s: %s", c.path, err)
		}
	}
}

func (c *CredentialStore) set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[key] == value {
		return
	}
	c.entries[key] = value
	c.save()
}

// save persists the current entries. Callers hold c.mu. Failures are logged
// and otherwise ignored-- persistence is best-effort.
func (c *CredentialStore) save() {
	if c.path == "" {
		return
	}
	if err := os.MkdirAll(path.Dir(c.path), 0755); err != nil {
		glog.Errorf("error creating directory for %s: %s", c.path, err)
		return
	}
	entriesBytes, err := json.Marshal(c.entries)
	if err != nil {
		glog.Errorf("error marshaling session entries: %s", err)
		return
	}
	if err := ioutil.WriteFile(c.path, entriesBytes, 0600); err != nil {
		glog.Errorf("error writing persisted session to %s: %s", c.path, err)
	}
}
