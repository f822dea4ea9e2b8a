// Package main provides a performance benchmarking tool for the leaderboard CLI.
// It measures execution times across data sources and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - leaderboard binary installed and available in PATH
// - One or more data sources: local directories or http(s) base URLs
//
// Usage: go run benchmark/main.go <data-source>...
//
//	data-source: Directory or base URL serving project_features.json
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Source      string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkCase is one command line measured against every source.
type BenchmarkCase struct {
	Name        string
	Command     string
	Description string
	Args        []string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Sources     []string
	Cases       []BenchmarkCase
}

func main() {
	if len(os.Args) < 2 {
		fmt.Printf("Usage: %s <data-source>...\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Sources:     os.Args[1:],
		Cases: []BenchmarkCase{
			{Name: "board", Command: "board", Description: "project board", Args: nil},
			{Name: "board-all", Command: "board", Description: "full board in rank mode", Args: []string{"--all", "--mode", "rank", "--order", "score"}},
			{Name: "features", Command: "features", Description: "feature statistics", Args: nil},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("leaderboard", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the leaderboard binary and local sources exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("leaderboard"); err != nil {
		return fmt.Errorf("leaderboard binary not found in PATH")
	}

	for _, source := range config.Sources {
		if isRemote(source) {
			continue
		}
		if _, err := os.Stat(source); os.IsNotExist(err) {
			return fmt.Errorf("data directory %s not found", source)
		}
	}

	return nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// runBenchmarks executes all benchmark cases across configured sources
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sources, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Sources), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, source := range config.Sources {
		fmt.Printf("Benchmarking %s\n", source)
		for _, bc := range config.Cases {
			results = append(results, runBenchmarkSuite(config, source, bc))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a case
func runBenchmarkSuite(config BenchmarkConfig, source string, bc BenchmarkCase) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", bc.Description, source)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, source, bc, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs. Only remote sources touch the cache.
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Source:      source,
		Command:     bc.Name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a leaderboard command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, source string, bc BenchmarkCase, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append([]string{bc.Command, source, "--cache-backend", cacheBackend}, bc.Args...)

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("leaderboard", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, bc.Command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	completionPhrase := "Board built in"
	if command == "features" {
		completionPhrase = "Listed"
	}
	return strings.Contains(string(output), completionPhrase)
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/leaderboard_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"source", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Source, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, bc := range config.Cases {
		fmt.Printf("%s:\n", bc.Description)
		for _, result := range results {
			if result.Command == bc.Name {
				fmt.Printf("  %-30s: No-cache: %s, Cold: %s, Warm: %s\n", result.Source, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
