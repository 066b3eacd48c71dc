package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sync/errgroup"
)

// volatileKeys differ between any two calls and never count as a diff.
var volatileKeys = []string{"processing_time_ms", "cache_hit", "request_id", "generated_at", "issued_at"}

type comparison struct {
	Target            target
	BaselineStatus    int
	CandidateStatus   int
	StatusMatch       bool
	BodyDiff          string
	Error             error
	DurationBaseline  time.Duration
	DurationCandidate time.Duration
}

func (c comparison) differs() bool {
	return c.Error != nil || !c.StatusMatch || c.BodyDiff != ""
}

type comparer struct {
	client    *http.Client
	baseline  string
	candidate string
	token     string
	ignore    map[string]bool
}

func ignoredKeys(extra []string) map[string]bool {
	keys := make(map[string]bool, len(volatileKeys)+len(extra))
	for _, k := range volatileKeys {
		keys[k] = true
	}
	for _, k := range extra {
		keys[strings.TrimSpace(k)] = true
	}
	return keys
}

// run compares every target, at most parallel at a time, preserving input order.
func (c *comparer) run(ctx context.Context, targets []target, parallel int) []comparison {
	if parallel < 1 {
		parallel = 1
	}
	results := make([]comparison, len(targets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			results[i] = c.compare(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (c *comparer) compare(ctx context.Context, tgt target) comparison {
	comp := comparison{Target: tgt}

	baseStatus, baseBody, baseDur, err := c.fetch(ctx, c.baseline, tgt)
	comp.DurationBaseline = baseDur
	if err != nil {
		comp.Error = fmt.Errorf("baseline request failed: %w", err)
		return comp
	}
	candStatus, candBody, candDur, err := c.fetch(ctx, c.candidate, tgt)
	comp.DurationCandidate = candDur
	if err != nil {
		comp.Error = fmt.Errorf("candidate request failed: %w", err)
		return comp
	}

	comp.BaselineStatus = baseStatus
	comp.CandidateStatus = candStatus
	comp.StatusMatch = baseStatus == candStatus
	comp.BodyDiff = c.bodyDiff(baseBody, candBody)
	return comp
}

func (c *comparer) fetch(ctx context.Context, base string, tgt target) (int, []byte, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var body io.Reader
	if len(tgt.Body) > 0 {
		body = bytes.NewReader(tgt.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(base, "/")+path, body)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, time.Since(start), fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, payload, time.Since(start), nil
}

// bodyDiff returns a human-readable diff, or "" when both bodies are equivalent.
func (c *comparer) bodyDiff(baseline, candidate []byte) string {
	if bytes.Equal(bytes.TrimSpace(baseline), bytes.TrimSpace(candidate)) {
		return ""
	}

	var bj, cj interface{}
	if json.Unmarshal(baseline, &bj) != nil || json.Unmarshal(candidate, &cj) != nil {
		return "non-JSON bodies differ"
	}
	ignore := cmpopts.IgnoreMapEntries(func(k string, _ interface{}) bool {
		return c.ignore[k]
	})
	return cmp.Diff(bj, cj, ignore, cmpopts.EquateApprox(0, 1e-9))
}

func tally(results []comparison) (breaking, optional int) {
	for _, res := range results {
		if !res.differs() {
			continue
		}
		if res.Target.Critical {
			breaking++
		} else {
			optional++
		}
	}
	return breaking, optional
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Shadow Compare Report")
	fmt.Fprintln(w, "======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.differs() {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Fprintf(w, "  Baseline: %d (%s) | Candidate: %d (%s)\n", res.BaselineStatus, res.DurationBaseline, res.CandidateStatus, res.DurationCandidate)
		switch {
		case res.Error != nil:
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
		case res.BodyDiff != "":
			fmt.Fprintf(w, "  Critical: %t\n  Diff (-baseline +candidate):\n%s\n", res.Target.Critical, res.BodyDiff)
		}
	}
}
