// Package importer holds the one-shot jobs that seed the directory
// from an external calendar platform: venue locations from a
// WordPress WXR export and events/organizers from a JSON API dump.
// Each job takes its inputs as explicit parameters and returns a
// RunReport; nothing here flips global flags or rewrites config
// files.  Jobs are idempotent through upsert-by-name so a re-run
// after a partial failure is safe.
package importer

import (
	"fmt"
	"time"
)

// RunReport summarizes one import run for the operator and for the
// import.completed broker message.
type RunReport struct {
	Job        string    `json:"job"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Scanned    int       `json:"scanned"`
	Imported   int       `json:"imported"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Errors     []string  `json:"errors,omitempty"`
}

func newReport(job, source string) *RunReport {
	return &RunReport{Job: job, Source: source, StartedAt: time.Now().UTC()}
}

func (r *RunReport) finish() {
	r.FinishedAt = time.Now().UTC()
}

// fail records one failed record with its reason.
func (r *RunReport) fail(format string, args ...any) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Duration reports the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Summary renders a one-line operator summary.
func (r *RunReport) Summary() string {
	return fmt.Sprintf("%s: scanned=%d imported=%d updated=%d skipped=%d failed=%d in %s",
		r.Job, r.Scanned, r.Imported, r.Updated, r.Skipped, r.Failed, r.Duration().Round(time.Millisecond))
}
