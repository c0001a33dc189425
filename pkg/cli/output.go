package cli

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
)

// printer writes diagnostics to the command output, one per line.
type printer struct {
	mu            sync.Mutex
	out           io.Writer
	minImportance buildevents.Importance
}

func (p *printer) Dispatch(event buildevents.Event) {
	if m, ok := event.(*buildevents.MessageEvent); ok && m.Importance > p.minImportance {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, event.Text())
}

func printSummary(out io.Writer, recorder *buildevents.Recorder, data buildcheck.TracingData) {
	fmt.Fprintf(out, "\nBuild check finished: %d error(s), %d warning(s), %d message(s)\n",
		len(recorder.Errors()), len(recorder.Warnings()), len(recorder.Messages()))

	counts := make(map[string]int64)
	for _, check := range data.Checks {
		for ruleID := range check.Diagnostics {
			counts[ruleID] = data.DiagnosticCount(ruleID)
		}
		if check.Faulted {
			fmt.Fprintf(out, "  check %s was disabled: %s\n", check.CheckName, check.FaultCause)
		}
	}

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "  %-10s %d\n", id, counts[id])
	}
}
