// Package config holds the site table that maps an operator to the
// simulation toolchain checkout used by submitted jobs.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownUser is returned when a user has no simulation directory.
var ErrUnknownUser = errors.New("unknown user")

// Sites maps user names to absolute simulation directories.
type Sites map[string]string

type sitesFile struct {
	Sites map[string]string `yaml:"sites"`
}

// DefaultSites returns the built-in site table.
func DefaultSites() Sites {
	return Sites{
		"lukedeo": "/u/at/lukedeo/jet-simulations",
		"bpn7":    "/nfs/slac/g/atlas/u01/users/bnachman/SLAC_pythia/Reclustering",
	}
}

// LoadSites reads a YAML site table and merges it over DefaultSites.
//
//	sites:
//	  alice: /home/alice/jet-simulations
func LoadSites(path string) (Sites, error) {
	sites := DefaultSites()
	if path == "" {
		return sites, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites %s: %w", path, err)
	}

	var f sitesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sites %s: %w", path, err)
	}
	for user, dir := range f.Sites {
		sites[user] = dir
	}
	return sites, sites.Validate()
}

// Validate checks that every entry names a user and a directory.
func (s Sites) Validate() error {
	for _, user := range s.Users() {
		if user == "" {
			return fmt.Errorf("site entry with empty user")
		}
		if s[user] == "" {
			return fmt.Errorf("site %q: simulation directory is required", user)
		}
	}
	return nil
}

// SimulationDir returns the simulation directory for user.
func (s Sites) SimulationDir(user string) (string, error) {
	dir, ok := s[user]
	if !ok || dir == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownUser, user)
	}
	return dir, nil
}

// Users returns the configured user names in sorted order.
func (s Sites) Users() []string {
	users := make([]string, 0, len(s))
	for u := range s {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}
