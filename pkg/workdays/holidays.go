package workdays

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// holidayFile is the on-disk shape of a holiday calendar.
//
//	holidays:
//	  - 2026-01-01
//	  - 2026-01-02
type holidayFile struct {
	Holidays []string `yaml:"holidays"`
}

// LoadHolidays reads a YAML holiday calendar and returns a Calendar excluding
// those dates. An empty path returns the weekends-only calendar.
func LoadHolidays(path string) (Calendar, error) {
	if path == "" {
		return Calendar{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to read holiday calendar %s: %w", path, err)
	}

	var file holidayFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Calendar{}, fmt.Errorf("failed to parse holiday calendar %s: %w", path, err)
	}

	dates := make([]time.Time, 0, len(file.Holidays))
	for _, s := range file.Holidays {
		d, err := time.Parse(dateLayout, s)
		if err != nil {
			return Calendar{}, fmt.Errorf("invalid holiday date %q in %s: %w", s, path, err)
		}
		dates = append(dates, d)
	}

	return New(dates), nil
}
