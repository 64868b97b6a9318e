package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"time"
)

// APIResponse matches the API response structure
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ymd struct {
	Year   int  `json:"year"`
	Month  int  `json:"month"`
	Day    int  `json:"day"`
	IsLeap bool `json:"is_leap"`
}

type DayResponse struct {
	Solar     ymd    `json:"solar"`
	Lunar     ymd    `json:"lunar"`
	LunarText string `json:"lunar_text"`
}

// TestResult holds the result for a single date
type TestResult struct {
	Date      string `json:"date"`
	Success   bool   `json:"success"`
	Lunar     string `json:"lunar,omitempty"`
	LunarYear int    `json:"lunar_year,omitempty"`
	Error     string `json:"error,omitempty"`
}

// YearStats tracks statistics for each lunar year
type YearStats struct {
	LunarYear   int
	TotalDays   int
	FailedDays  int
	FailedDates []string
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	startYear := flag.Int("start", 2024, "Start year")
	years := flag.Int("years", 4, "Number of years to test")
	verbose := flag.Bool("v", false, "Verbose output (show each date)")
	outputFile := flag.String("o", "", "Output results to JSON file")
	flag.Parse()

	endYear := *startYear + *years - 1

	fmt.Println("================================================================")
	fmt.Println("Lunisolar API - Round Trip Coverage Test")
	fmt.Println("================================================================")
	fmt.Printf("Base URL:    %s\n", *baseURL)
	fmt.Printf("Date Range:  %d-01-01 to %d-12-31\n", *startYear, endYear)
	fmt.Printf("Total Years: %d\n", *years)
	fmt.Println()

	// Check if server is reachable
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	results := testAllDates(client, *baseURL, *startYear, endYear, *verbose)
	stats, failed := analyzeResults(results)
	printSummary(results, stats, failed)

	if *outputFile != "" {
		saveResults(*outputFile, results)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func testAllDates(client *http.Client, baseURL string, startYear, endYear int, verbose bool) []TestResult {
	// time.Time is proleptic Gregorian, which matches the API from 1583 on.
	start := time.Date(startYear, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(endYear, 12, 31, 0, 0, 0, 0, time.UTC)
	totalDays := int(end.Sub(start).Hours()/24) + 1

	fmt.Printf("Testing %d days...\n\n", totalDays)

	results := make([]TestResult, 0, totalDays)
	failed := 0
	lastProgress := -1

	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		result := testDate(client, baseURL, current)
		results = append(results, result)
		if !result.Success {
			failed++
		}

		progress := (len(results) * 100) / totalDays
		if progress != lastProgress && progress%5 == 0 {
			fmt.Printf("  Progress: %d%% (%d/%d) - Failures: %d\n", progress, len(results), totalDays, failed)
			lastProgress = progress
		}

		if verbose {
			status := "✓"
			if !result.Success {
				status = "✗"
			}
			fmt.Printf("  %s %s: %s\n", status, result.Date, result.Lunar)
			if !result.Success {
				fmt.Printf("      Error: %s\n", result.Error)
			}
		}
	}

	fmt.Println()
	return results
}

// testDate converts date to the lunar calendar and back.
func testDate(client *http.Client, baseURL string, date time.Time) TestResult {
	result := TestResult{Date: date.Format("2006-01-02")}

	var there DayResponse
	if err := getData(client, baseURL+"/api/v1/solar/"+result.Date, &there); err != nil {
		result.Error = err.Error()
		return result
	}
	result.Lunar = there.LunarText
	result.LunarYear = there.Lunar.Year

	l := there.Lunar
	var back DayResponse
	path := fmt.Sprintf("%s/api/v1/lunar/%d/%d/%d?leap=%t", baseURL, l.Year, l.Month, l.Day, l.IsLeap)
	if err := getData(client, path, &back); err != nil {
		result.Error = "reverse: " + err.Error()
		return result
	}

	got := time.Date(back.Solar.Year, time.Month(back.Solar.Month), back.Solar.Day, 0, 0, 0, 0, time.UTC)
	if !got.Equal(date) {
		result.Error = fmt.Sprintf("round trip gave %s", got.Format("2006-01-02"))
		return result
	}

	result.Success = true
	return result
}

func getData(client *http.Client, url string, target any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("%s", errMsg)
	}
	return json.Unmarshal(apiResp.Data, target)
}

func analyzeResults(results []TestResult) (map[int]*YearStats, int) {
	stats := make(map[int]*YearStats)
	failed := 0

	for _, r := range results {
		s, ok := stats[r.LunarYear]
		if !ok {
			s = &YearStats{LunarYear: r.LunarYear}
			stats[r.LunarYear] = s
		}
		s.TotalDays++
		if !r.Success {
			failed++
			s.FailedDays++
			s.FailedDates = append(s.FailedDates, r.Date)
		}
	}
	return stats, failed
}

func printSummary(results []TestResult, stats map[int]*YearStats, failed int) {
	fmt.Println("================================================================")
	fmt.Println("SUMMARY")
	fmt.Println("================================================================")
	fmt.Printf("Total Days:   %d\n", len(results))
	fmt.Printf("Round Trips:  %d\n", len(results)-failed)
	fmt.Printf("Failed:       %d\n", failed)
	fmt.Println()

	years := make([]int, 0, len(stats))
	for y := range stats {
		years = append(years, y)
	}
	sort.Ints(years)

	fmt.Println("Days per lunar year (0 = request failed before conversion):")
	for _, y := range years {
		s := stats[y]
		fmt.Printf("  %5d: %3d days, %d failed\n", y, s.TotalDays, s.FailedDays)
		for _, d := range s.FailedDates {
			fmt.Printf("         ✗ %s\n", d)
		}
	}
	fmt.Println()
}

func saveResults(filename string, results []TestResult) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Printf("Error marshaling results: %v\n", err)
		return
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		fmt.Printf("Error writing results file: %v\n", err)
		return
	}

	fmt.Printf("Results saved to: %s\n", filename)
}
