package profiles

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

var ErrProfileStoreNotFound = errors.New("profile store is not found")
var ErrProfileInvalid = errors.New("kitchen profile is invalid")

// ProfileStore is a map from profile name to KitchenProfile.
type ProfileStore map[string]*KitchenProfile

// CachedSession is a session token saved by `kitchen auth`.
type CachedSession struct {
	Token     string    `yaml:"token,omitempty"`
	ExpiresAt time.Time `yaml:"expiresAt,omitempty"`
}

// Fresh is true while the cached token is worth sending.
func (s CachedSession) Fresh() bool {
	return s.Token != "" && time.Now().Before(s.ExpiresAt)
}

// KitchenProfile points at one kitchen API with one set of credentials.
type KitchenProfile struct {
	// ApiRoot is the endpoint of the kitchen API.
	ApiRoot string `yaml:"apiRoot"`

	// Email is the Media Cloud account of the user.
	Email string `yaml:"email"`

	// ApiKey is the Media Cloud API key of the user.
	ApiKey string `yaml:"apiKey"`

	// Session caches a session token so requests skip upstream
	// validation until it expires.
	Session CachedSession `yaml:"session,omitempty"`
}

func (p *KitchenProfile) Verify() error {
	u, err := url.Parse(p.ApiRoot)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("%w: apiRoot is not URL: %s", ErrProfileInvalid, p.ApiRoot)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: email does not look like one: %s", ErrProfileInvalid, p.Email)
	}
	if p.ApiKey == "" {
		return fmt.Errorf("%w: apiKey is empty", ErrProfileInvalid)
	}
	return nil
}

// LoadProfileStore loads the profile store from file.
func LoadProfileStore(filepath string) (ProfileStore, error) {
	buf, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrProfileStoreNotFound, filepath)
		}
		return nil, err
	}
	return Unmarshal(buf)
}

func Unmarshal(buf []byte) (ProfileStore, error) {
	ret := map[string]*KitchenProfile{}
	if err := yaml.Unmarshal(buf, &ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Save writes the profile store, file mode 0600 since it holds keys.
func (ps ProfileStore) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0700)); err != nil {
		return err
	}

	buf, err := yaml.Marshal(ps)
	if err != nil {
		return err
	}

	tmp := path + ".new"
	if err := os.WriteFile(tmp, buf, os.FileMode(0600)); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
