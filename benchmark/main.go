// Package main provides a performance benchmarking tool for the fleetdoctor CLI.
// It generates synthetic scraper fleets of increasing size, runs repository and
// fleet analyses against them at several worker counts, averages the timings and
// writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - fleetdoctor binary installed and available in PATH
// - git available (the sandbox clones each repository)
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Scratch directory for the generated fleets
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the averaged timing for one fleet size and worker count.
type BenchmarkResult struct {
	Fleet   string
	Command string
	Workers int
	AvgTime string
}

// fleetShape describes one synthetic fleet: how many repositories to
// generate and how many agents each one holds.
type fleetShape struct {
	Name   string
	Repos  int
	Agents int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	Runs        int
	WorkerPlans []int
	Shapes      []fleetShape
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:     os.Args[1],
		Timeout:     5 * time.Minute,
		Runs:        3,
		WorkerPlans: []int{1, 4, 8},
		Shapes: []fleetShape{
			{Name: "small", Repos: 2, Agents: 5},
			{Name: "medium", Repos: 5, Agents: 20},
			{Name: "large", Repos: 10, Agents: 50},
		},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating fleets under %s\n", config.WorkDir)
	if err := generateFleets(config); err != nil {
		fmt.Printf("Fleet generation failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the fleetdoctor binary and git exist.
func checkPrerequisites() error {
	if _, err := exec.LookPath("fleetdoctor"); err != nil {
		return fmt.Errorf("fleetdoctor binary not found in PATH")
	}
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git not found in PATH")
	}
	return nil
}

// generateFleets builds one directory of git repositories per fleet shape.
// Every agent is a stub spider plus a runner script that emits a fixed item.
func generateFleets(config BenchmarkConfig) error {
	for _, shape := range config.Shapes {
		fleetDir := filepath.Join(config.WorkDir, shape.Name)
		for r := 0; r < shape.Repos; r++ {
			repoDir := filepath.Join(fleetDir, fmt.Sprintf("city-scrapers-%02d", r))
			if err := generateRepo(repoDir, shape.Agents); err != nil {
				return fmt.Errorf("generate %s: %w", repoDir, err)
			}
		}
	}
	return nil
}

func generateRepo(repoDir string, agents int) error {
	spiderDir := filepath.Join(repoDir, "spiders")
	if err := os.MkdirAll(spiderDir, 0o755); err != nil {
		return err
	}

	for a := 0; a < agents; a++ {
		name := fmt.Sprintf("agent_%03d", a)
		spider := fmt.Sprintf("import scrapy\n\nclass Agent%03dSpider(scrapy.Spider):\n    name = %q\n    agency = \"Benchmark Agency %03d\"\n    start_urls = [\"https://example.org/%03d\"]\n", a, name, a, a)
		if err := os.WriteFile(filepath.Join(spiderDir, name+".py"), []byte(spider), 0o644); err != nil {
			return err
		}
	}

	runner := "#!/bin/sh\necho '[{\"title\": \"item\"}]' > \"$2\"\n"
	if err := os.WriteFile(filepath.Join(repoDir, "run.sh"), []byte(runner), 0o755); err != nil {
		return err
	}

	for _, args := range [][]string{
		{"init", "-q"},
		{"config", "user.email", "bench@example.com"},
		{"config", "user.name", "bench"},
		{"add", "."},
		{"commit", "-q", "-m", "seed"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = repoDir
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("git %v: %s", args, output)
		}
	}
	return nil
}

// runBenchmarks executes the fleet analysis across every shape and worker count.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d fleets, %v timeout, %d runs each\n",
		len(config.Shapes), config.Timeout, config.Runs)

	for _, shape := range config.Shapes {
		fleetDir := filepath.Join(config.WorkDir, shape.Name)
		for _, workers := range config.WorkerPlans {
			fmt.Printf("Benchmarking fleet %s with %d workers\n", shape.Name, workers)
			avg := runBenchmark(config, fleetDir, workers)
			results = append(results, BenchmarkResult{
				Fleet:   shape.Name,
				Command: "fleet",
				Workers: workers,
				AvgTime: avg,
			})
		}
	}

	return results
}

// runBenchmark executes the fleet command numRuns times and returns the
// average wall-clock time; timed-out or failed runs are excluded.
func runBenchmark(config BenchmarkConfig, fleetDir string, workers int) string {
	var times []float64

	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("fleetdoctor", "fleet",
			"--root-path", fleetDir,
			"--workers", fmt.Sprintf("%d", workers),
			"--run-command", "sh run.sh {agent} {out}")

		done := make(chan bool)
		var cmdErr error

		go func() {
			_, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/fleetdoctor_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"fleet", "cmd", "workers", "avg_time"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		record := []string{result.Fleet, result.Command, fmt.Sprintf("%d", result.Workers), result.AvgTime}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-8s workers=%d: %s\n", result.Fleet, result.Workers, result.AvgTime)
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
