package scan

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/vulnmgt/malwatch/feed"
	"github.com/vulnmgt/malwatch/inventory"
	"github.com/vulnmgt/malwatch/match"
	"github.com/vulnmgt/malwatch/report"
)

// Report file names, fixed per the CI contract
const (
	SummaryFileName = "summary.txt"
	TableFileName   = "new-malicious-packages.txt"
)

// Result is what a completed run reports back to the invoking pipeline
type Result struct {
	Matches       int    // number of vulnerable matches found
	ThreatEntries int    // raw feed size
	Inventory     int    // flattened library occurrences
	SummaryFile   string // path of the written alert summary
	TableFile     string // path of the written malicious packages table
}

// Runner sequences one batch run over the two upstream sources. Sources are
// interfaces so tests can drive the pipeline with in-memory fixtures.
type Runner struct {
	Feed      feed.Source
	Inventory inventory.Source
	OutDir    string
	Now       func() time.Time // report generation clock; defaults to time.Now
	Logger    *zap.Logger
}

// Run executes the pipeline: drain the threat feed, flatten the inventory,
// join the two, render and write both reports. Feed failures and an
// unreachable workspace list abort the run; degraded project/library pages
// are handled inside the flattener.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	sugar := r.Logger.Sugar()

	threats, err := feed.FetchAll(ctx, r.Feed)
	if err != nil {
		return nil, err
	}
	sugar.Infof("threat feed: %d entries", len(threats))

	triples, err := inventory.NewFlattener(r.Inventory, r.Logger).Flatten(ctx)
	if err != nil {
		return nil, err
	}

	matches := match.Find(threats, triples)
	sugar.Infof("cross-reference: %d match(es)", len(matches))

	for _, m := range matches {
		sugar.Debugf("match: %s@%s in project %s (workspace %s)",
			m.Threat.Name, m.Threat.Version, m.Project.Name, m.Workspace.Name)
	}

	generatedAt := now()
	summaryPath := filepath.Join(r.OutDir, SummaryFileName)
	tablePath := filepath.Join(r.OutDir, TableFileName)

	if err := os.MkdirAll(r.OutDir, 0755); err != nil {
		return nil, &RunError{Op: "creating output directory", Err: err}
	}

	summary := report.Summary(matches, generatedAt)
	if err := os.WriteFile(summaryPath, []byte(summary), 0644); err != nil {
		return nil, &RunError{Op: "writing " + SummaryFileName, Err: err}
	}

	table := report.MaliciousTable(threats, generatedAt)
	if err := os.WriteFile(tablePath, []byte(table), 0644); err != nil {
		return nil, &RunError{Op: "writing " + TableFileName, Err: err}
	}

	return &Result{
		Matches:       len(matches),
		ThreatEntries: len(threats),
		Inventory:     len(triples),
		SummaryFile:   summaryPath,
		TableFile:     tablePath,
	}, nil
}
