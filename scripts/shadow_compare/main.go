package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

type target struct {
	Method   string          `json:"method"`
	Path     string          `json:"path"`
	Body     json.RawMessage `json:"body,omitempty"`
	Critical bool            `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
	// Ignore lists extra JSON keys stripped before comparing, e.g. "generated_at".
	Ignore []string `json:"ignore"`
}

func main() {
	var (
		baseline    string
		candidate   string
		targetsPath string
		token       string
		timeout     time.Duration
		parallel    int
	)

	flag.StringVar(&baseline, "baseline", "http://localhost:8080/api/v1", "Baseline RENOA API base URL")
	flag.StringVar(&candidate, "candidate", "http://localhost:8081/api/v1", "Candidate RENOA API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.StringVar(&token, "token", os.Getenv("RENOA_TOKEN"), "Bearer token sent to both deployments")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.IntVar(&parallel, "parallel", 4, "Concurrent targets")
	flag.Parse()

	cfg, err := loadConfig(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	shadow := &comparer{
		client:    &http.Client{Timeout: timeout},
		baseline:  baseline,
		candidate: candidate,
		token:     token,
		ignore:    ignoredKeys(cfg.Ignore),
	}
	results := shadow.run(context.Background(), cfg.Targets, parallel)

	breaking, optional := tally(results)
	printReport(os.Stdout, results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return &cfg, nil
}
