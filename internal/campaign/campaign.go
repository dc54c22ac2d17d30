// Package campaign loads campaign files and writes computed timeline
// handoff files with atomic YAML I/O.
package campaign

import (
	"fmt"
	"os"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

const SchemaVersion = 1

// Campaign is a configured content-automation task: the videos to publish,
// the sources to scan, and the cadence to do it at.
type Campaign struct {
	SchemaVersion int                  `yaml:"schema_version"`
	Name          string               `yaml:"name"`
	Videos        []model.Video        `yaml:"videos"`
	Sources       []model.Source       `yaml:"sources"`
	Schedule      model.ScheduleConfig `yaml:"schedule"`
}

// Load reads and validates a campaign file. A malformed schedule
// configuration is the one condition that surfaces as an error; an empty
// video and source set is valid.
func Load(path string) (Campaign, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Campaign{}, fmt.Errorf("read campaign file: %w", err)
	}
	var c Campaign
	if err := yamlv3.Unmarshal(content, &c); err != nil {
		return Campaign{}, fmt.Errorf("parse campaign file: %w", err)
	}
	if err := c.Schedule.Validate(); err != nil {
		return Campaign{}, fmt.Errorf("campaign schedule: %w", err)
	}
	return c, nil
}
