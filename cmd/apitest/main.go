package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type DayResponse struct {
	SolarText  string `json:"solar_text"`
	LunarText  string `json:"lunar_text"`
	LunarName  string `json:"lunar_name"`
	YearPillar string `json:"year_pillar"`
	Zodiac     string `json:"zodiac"`
}

type PillarsResponse struct {
	BaZi string `json:"bazi"`
	Jie  struct {
		Name string `json:"name"`
	} `json:"jie"`
}

type ChartResponse struct {
	ID    string `json:"id"`
	Chart struct {
		BaZi  string `json:"bazi"`
		Onset struct {
			Description string `json:"description"`
		} `json:"onset"`
	} `json:"chart"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Lunisolar API Test Suite")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testConversions()
	tr.testPillars()
	tr.testAlmanac()
	tr.testErrors()
	if tr.apiKey != "" {
		tr.testCharts()
	}

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	var health HealthResponse
	if err := tr.getData("/health", &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testConversions() {
	tr.printSection("Solar and Lunar Dates")

	cases := []struct {
		path      string
		lunarText string
		pillar    string
	}{
		{"/api/v1/solar/2024-02-10", "2024年01月01日", "甲辰"},
		{"/api/v1/solar/2020-05-23", "2020年闰04月01日", "庚子"},
		{"/api/v1/solar/1900-01-31", "1900年01月01日", "庚子"},
		{"/api/v1/lunar/2020/4/1?leap=true", "2020年闰04月01日", "庚子"},
		{"/api/v1/lunar/2033/11/1?leap=true", "2033年闰11月01日", "癸丑"},
	}

	for _, c := range cases {
		var day DayResponse
		if err := tr.getData(c.path, &day); err != nil {
			tr.recordError(c.path, err.Error())
			continue
		}
		if day.LunarText != c.lunarText || day.YearPillar != c.pillar {
			tr.recordError(c.path, fmt.Sprintf("got %s %s, want %s %s",
				day.LunarText, day.YearPillar, c.lunarText, c.pillar))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s → %s %s", c.path, day.SolarText, day.LunarName))
	}
}

func (tr *TestRunner) testPillars() {
	tr.printSection("Four Pillars")

	cases := []struct {
		datetime string
		bazi     string
	}{
		{"1998-07-10T13:00:00", "戊寅己未戊午己未"},
		{"2024-02-04T16:00:00", "癸卯乙丑戊戌庚申"},
		{"2024-02-04T16:30:00", "甲辰丙寅戊戌庚申"},
	}

	for _, c := range cases {
		var p PillarsResponse
		if err := tr.getData("/api/v1/ganzhi?datetime="+c.datetime, &p); err != nil {
			tr.recordError(c.datetime, err.Error())
			continue
		}
		if p.BaZi != c.bazi {
			tr.recordError(c.datetime, fmt.Sprintf("got %s, want %s", p.BaZi, c.bazi))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s → %s (%s)", c.datetime, p.BaZi, p.Jie.Name))
	}
}

func (tr *TestRunner) testAlmanac() {
	tr.printSection("Almanac")

	var a struct {
		YearPillar string `json:"year_pillar"`
		LeapMonth  int    `json:"leap_month"`
		Months     []any  `json:"months"`
	}
	if err := tr.getData("/api/v1/almanac/2025", &a); err != nil {
		tr.recordError("Almanac 2025", err.Error())
	} else if a.LeapMonth != 6 || len(a.Months) != 13 {
		tr.recordError("Almanac 2025", fmt.Sprintf("leap %d with %d months", a.LeapMonth, len(a.Months)))
	} else {
		tr.recordSuccess(fmt.Sprintf("Almanac 2025 %s, leap month %d", a.YearPillar, a.LeapMonth))
	}

	resp, err := tr.client.Get(tr.baseURL + "/api/v1/almanac/2025/terms.ics")
	if err != nil {
		tr.recordError("ICS", err.Error())
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !bytes.HasPrefix(body, []byte("BEGIN:VCALENDAR")) {
		tr.recordError("ICS", fmt.Sprintf("status %d", resp.StatusCode))
		return
	}
	tr.recordSuccess(fmt.Sprintf("ICS feed with %d events", bytes.Count(body, []byte("BEGIN:VEVENT"))))
}

func (tr *TestRunner) testErrors() {
	tr.printSection("Error Handling")

	cases := []struct {
		path string
		code string
	}{
		{"/api/v1/solar/2023-02-29", "OUT_OF_RANGE"},
		{"/api/v1/solar/1582-10-10", "OUT_OF_RANGE"},
		{"/api/v1/lunar/2024/4/1?leap=true", "LEAP_MONTH_MISMATCH"},
		{"/api/v1/solar/not-a-date", "BAD_REQUEST"},
		{"/api/v1/fate?datetime=2000-01-01", "BAD_REQUEST"},
	}

	for _, c := range cases {
		apiResp, err := tr.get(c.path)
		if err != nil {
			tr.recordError(c.path, err.Error())
			continue
		}
		if apiResp.Success || apiResp.Error == nil || apiResp.Error.Code != c.code {
			tr.recordError(c.path, fmt.Sprintf("expected error %s", c.code))
			continue
		}
		tr.recordSuccess(fmt.Sprintf("%s → %s", c.path, c.code))
	}
}

func (tr *TestRunner) testCharts() {
	tr.printSection("Saved Charts")

	body, _ := json.Marshal(map[string]string{
		"datetime": "1998-07-10T13:00:00",
		"sex":      "male",
		"label":    "apitest",
	})
	req, _ := http.NewRequest(http.MethodPost, tr.baseURL+"/api/v1/charts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", tr.apiKey)

	apiResp, err := tr.do(req)
	if err != nil {
		tr.recordError("Create chart", err.Error())
		return
	}
	var created ChartResponse
	if err := json.Unmarshal(apiResp.Data, &created); err != nil || created.ID == "" {
		tr.recordError("Create chart", "missing id")
		return
	}
	tr.recordSuccess(fmt.Sprintf("Created chart %s (%s, %s)", created.ID, created.Chart.BaZi, created.Chart.Onset.Description))

	var got ChartResponse
	if err := tr.getData("/api/v1/charts/"+created.ID, &got); err != nil || got.Chart.BaZi != created.Chart.BaZi {
		tr.recordError("Get chart", fmt.Sprintf("%v", err))
	} else {
		tr.recordSuccess("Fetched chart " + got.ID)
	}

	req, _ = http.NewRequest(http.MethodDelete, tr.baseURL+"/api/v1/charts/"+created.ID, nil)
	req.Header.Set("X-API-Key", tr.apiKey)
	if _, err := tr.do(req); err != nil {
		tr.recordError("Delete chart", err.Error())
		return
	}
	tr.recordSuccess("Deleted chart " + created.ID)
}

// =============================================================================
// Helpers
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	req, err := http.NewRequest(http.MethodGet, tr.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := tr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if tr.verbose {
		fmt.Printf("    %s %d %s\n", path, resp.StatusCode, body)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w (body: %s)", err, string(body))
	}
	return &apiResp, nil
}

// do sends req and fails on an error envelope.
func (tr *TestRunner) do(req *http.Request) (*APIResponse, error) {
	resp, err := tr.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}
	return &apiResp, nil
}

func (tr *TestRunner) getData(path string, target any) error {
	apiResp, err := tr.get(path)
	if err != nil {
		return err
	}
	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return fmt.Errorf("API error: %s", errMsg)
	}
	return json.Unmarshal(apiResp.Data, target)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
	}

	if tr.errorCount == 0 {
		fmt.Println("All tests passed! ✓")
	} else {
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
	}
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key for chart writes; empty skips them")
	verbose := flag.Bool("v", false, "Verbose output (show response bodies)")
	flag.Parse()

	// Check if server is reachable
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	// Exit with error code if tests failed
	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
