// Package profile loads the data behind the portfolio page: hero, about,
// career timeline, skills and contact details.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// monthLayout is the format of career start and end dates.
const monthLayout = "2006-01"

// Profile is the owner of the site.
type Profile struct {
	Name     string   `yaml:"name"`
	Role     string   `yaml:"role"`
	Location string   `yaml:"location"`
	Tagline  string   `yaml:"tagline"`
	Resume   string   `yaml:"resume"`
	Email    string   `yaml:"email"`
	About    []string `yaml:"about"`
	Links    []Link   `yaml:"links"`
	Career   []Job    `yaml:"career"`
	Skills   []Skills `yaml:"skills"`
}

// Link is an external profile link.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// Job is one entry on the career timeline. End is empty for the current role.
type Job struct {
	Role       string   `yaml:"role"`
	Company    string   `yaml:"company"`
	Start      string   `yaml:"start"`
	End        string   `yaml:"end"`
	Summary    string   `yaml:"summary"`
	Highlights []string `yaml:"highlights"`
}

// Current reports whether the job has no end date.
func (j Job) Current() bool { return strings.TrimSpace(j.End) == "" }

// Period formats the job's date range, e.g. "Mar 2021 – Present".
func (j Job) Period() string {
	end := "Present"
	if !j.Current() {
		end = formatMonth(j.End)
	}
	return formatMonth(j.Start) + " – " + end
}

func formatMonth(s string) string {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2006")
}

// Skills is a named group of skills.
type Skills struct {
	Group string   `yaml:"group"`
	Items []string `yaml:"items"`
}

var ErrNoName = errors.New("profile: name is required")

// Load reads and validates the profile at name in fsys.
func Load(fsys fs.FS, name string) (*Profile, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return Parse(raw)
}

// Parse decodes profile YAML.
func Parse(raw []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrNoName
	}
	for i, j := range p.Career {
		if _, err := time.Parse(monthLayout, j.Start); err != nil {
			return nil, fmt.Errorf("career[%d] %s: invalid start %q", i, j.Company, j.Start)
		}
		if !j.Current() {
			if _, err := time.Parse(monthLayout, j.End); err != nil {
				return nil, fmt.Errorf("career[%d] %s: invalid end %q", i, j.Company, j.End)
			}
		}
	}
	return &p, nil
}
