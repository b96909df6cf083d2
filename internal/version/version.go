package version

import (
	"fmt"
	"time"

	"github.com/Shimobouzi/FilmWorker/internal/infrastructure/storage"
)

// Заполняются через -ldflags "-X github.com/Shimobouzi/FilmWorker/internal/version.BuildDate=..."
var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// ReplayFormat - версия формата файлов записей, которую понимает эта сборка.
const ReplayFormat = int(storage.Version1)

// Нулевой день нумерации сборок.
var buildEpoch = time.Date(
	2025, time.December, 4,
	0, 0, 0, 0,
	time.UTC,
)

// VersionInfo describes the build metadata in structured form.
type VersionInfo struct {
	BuildID      int    `json:"buildId"`
	BuildDate    string `json:"buildDate"`
	Commit       string `json:"commit"`
	Branch       string `json:"branch"`
	CI           string `json:"ci"`
	ReplayFormat int    `json:"replayFormat"`
	Calculated   bool   `json:"calculated"`
	Error        string `json:"error,omitempty"`
}

// CalculateBuildID returns the number of days between the build epoch and BuildDate.
func CalculateBuildID() (int, error) {
	return buildIDFor(BuildDate)
}

func buildIDFor(date string) (int, error) {
	if date == "" {
		return 0, fmt.Errorf("BuildDate is empty")
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", date)
	}

	// Using hours avoids DST issues; epoch and build date are both UTC.
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info returns structured version information.
// Safe to call at any time.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate:    BuildDate,
		Commit:       BuildCommit,
		Branch:       BuildBranch,
		CI:           BuildCI,
		ReplayFormat: ReplayFormat,
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String returns a human-readable build string.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("FilmWorker build unknown (%s)", info.Error)
	}

	return fmt.Sprintf(
		"FilmWorker build %d (%s) commit[%s] branch[%s] ci[%s] replay-format[v%d]",
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
		info.ReplayFormat,
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
