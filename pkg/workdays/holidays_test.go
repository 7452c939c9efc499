package workdays

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHolidayFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadHolidays(t *testing.T) {
	path := writeHolidayFile(t, `
holidays:
  - 2026-01-01
  - 2026-01-02
  - 2026-12-25
`)

	cal, err := LoadHolidays(path)
	require.NoError(t, err)

	assert.False(t, cal.IsWorkingDay(date("2026-01-01")))
	assert.False(t, cal.IsWorkingDay(date("2026-12-25")))
	assert.True(t, cal.IsWorkingDay(date("2026-01-05")))
}

func TestLoadHolidaysEmptyPath(t *testing.T) {
	cal, err := LoadHolidays("")
	require.NoError(t, err)

	// Weekends-only calendar.
	assert.True(t, cal.IsWorkingDay(date("2026-01-01")))
	assert.False(t, cal.IsWorkingDay(date("2026-01-03")))
}

func TestLoadHolidaysInvalidDate(t *testing.T) {
	path := writeHolidayFile(t, `
holidays:
  - not-a-date
`)

	_, err := LoadHolidays(path)
	assert.ErrorContains(t, err, "invalid holiday date")
}

func TestLoadHolidaysMissingFile(t *testing.T) {
	_, err := LoadHolidays(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
