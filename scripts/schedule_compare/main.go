// Command schedule_compare fetches the badness reports of two schedules
// from a running API instance and prints a per-group diff. Exit status 1
// means the candidate scored worse than the baseline.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

type sessionReport struct {
	SessionID   string   `json:"session_id"`
	Group       string   `json:"group"`
	Placed      bool     `json:"placed"`
	TimeSlotIDs []string `json:"timeslot_ids"`
	Badness     int      `json:"badness"`
}

type badnessReport struct {
	ScheduleID string          `json:"schedule_id"`
	Total      int             `json:"total"`
	Sessions   []sessionReport `json:"sessions"`
}

type envelope struct {
	Data  *badnessReport `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	var (
		base      string
		baseline  string
		candidate string
		timeout   time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.StringVar(&baseline, "baseline", "", "Baseline schedule ID")
	flag.StringVar(&candidate, "candidate", "", "Candidate schedule ID")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")
	flag.Parse()

	if baseline == "" || candidate == "" {
		log.Fatal("both -baseline and -candidate are required")
	}

	client := &http.Client{Timeout: timeout}

	before, err := fetchReport(client, base, baseline)
	if err != nil {
		log.Fatalf("baseline %s: %v", baseline, err)
	}
	after, err := fetchReport(client, base, candidate)
	if err != nil {
		log.Fatalf("candidate %s: %v", candidate, err)
	}

	printDiff(before, after)

	if after.Total > before.Total {
		os.Exit(1)
	}
}

func fetchReport(client *http.Client, base, scheduleID string) (*badnessReport, error) {
	url := fmt.Sprintf("%s/schedules/%s/badness?force=true", strings.TrimRight(base, "/"), scheduleID)
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	if env.Data == nil {
		return nil, fmt.Errorf("empty report for %s", scheduleID)
	}
	return env.Data, nil
}

func printDiff(before, after *badnessReport) {
	fmt.Printf("Schedule Compare: %s -> %s\n", before.ScheduleID, after.ScheduleID)
	fmt.Println("==========================================")
	fmt.Printf("Total: %d -> %d (%+d)\n\n", before.Total, after.Total, after.Total-before.Total)

	byGroup := func(r *badnessReport) map[string]sessionReport {
		m := make(map[string]sessionReport, len(r.Sessions))
		for _, s := range r.Sessions {
			m[s.Group] = s
		}
		return m
	}
	beforeGroups := byGroup(before)
	afterGroups := byGroup(after)

	groups := make([]string, 0, len(beforeGroups))
	seen := make(map[string]bool)
	for g := range beforeGroups {
		groups = append(groups, g)
		seen[g] = true
	}
	for g := range afterGroups {
		if !seen[g] {
			groups = append(groups, g)
		}
	}
	sort.Strings(groups)

	for _, g := range groups {
		b, inBefore := beforeGroups[g]
		a, inAfter := afterGroups[g]
		switch {
		case !inAfter:
			fmt.Printf("[GONE] %-20s baseline %d\n", g, b.Badness)
		case !inBefore:
			fmt.Printf("[NEW]  %-20s candidate %d\n", g, a.Badness)
		case a.Badness != b.Badness || a.Placed != b.Placed:
			fmt.Printf("[DIFF] %-20s %d -> %d placed=%t->%t\n", g, b.Badness, a.Badness, b.Placed, a.Placed)
		}
	}
}
