// attendctl drives a manual attendance session against a running track API
// from the terminal: select filters, load the roster, mark everyone, flip
// the exceptions, submit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mlvisio/track-api/internal/client"
	"github.com/mlvisio/track-api/internal/models"
	"github.com/mlvisio/track-api/internal/workflow"
)

func main() {
	var (
		base        string
		email       string
		password    string
		department  string
		year        string
		studyType   string
		subject     string
		date        string
		search      string
		status      string
		absentRegs  string
		arrival     string
		location    string
		timeout     time.Duration
		concurrency int
		listOnly    bool
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api", "API base URL")
	flag.StringVar(&email, "email", "", "Login email")
	flag.StringVar(&password, "password", "", "Login password")
	flag.StringVar(&department, "department", "", "Department filter (HNDIT, HNDA, HNDM, HNDE)")
	flag.StringVar(&year, "year", "", "Year filter (1st Year, 2nd Year, 3rd Year)")
	flag.StringVar(&studyType, "type", "", "Study type filter (Full Time, Part Time)")
	flag.StringVar(&subject, "subject", "", "Subject code")
	flag.StringVar(&date, "date", time.Now().Format("2006-01-02"), "Attendance date (YYYY-MM-DD)")
	flag.StringVar(&search, "search", "", "Free-text roster search")
	flag.StringVar(&status, "status", "Present", "Status applied to the visible roster")
	flag.StringVar(&absentRegs, "absent", "", "Comma-separated registration numbers to mark Absent instead")
	flag.StringVar(&arrival, "arrival", "08:30", "Default arrival time")
	flag.StringVar(&location, "location", "Lab 01", "Location recorded for the batch")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Per-call submit timeout")
	flag.IntVar(&concurrency, "concurrency", 8, "Max in-flight submit calls")
	flag.BoolVar(&listOnly, "list", false, "Print the filtered roster and exit without marking")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("both -email and -password are required")
	}
	canonical, ok := models.ParseStatus(status)
	if !ok {
		log.Fatalf("unknown status %q", status)
	}

	ctx := context.Background()
	api := client.New(base)
	if _, err := api.Login(ctx, email, password); err != nil {
		log.Fatalf("login failed: %v", err)
	}

	session := workflow.NewSession(api, workflow.Config{
		DefaultArrivalTime: arrival,
		DefaultLocation:    location,
		PerCallTimeout:     timeout,
		MaxInFlight:        concurrency,
	}, nil)

	session.SetDepartment(department)
	session.SetYear(year)
	session.SetStudyType(studyType)
	session.SetSubject(subject)
	session.SetDate(date)

	if err := session.LoadRoster(ctx); err != nil {
		log.Fatalf("roster load failed: %v", err)
	}
	session.SetSearch(search)

	visible := session.Visible()
	fmt.Printf("Roster: %d students (%d visible)\n", len(session.Roster()), len(visible))
	for _, s := range visible {
		fmt.Printf("  %-12s %s\n", s.RegistrationNumber, s.Name)
	}
	if listOnly {
		return
	}
	if len(visible) == 0 {
		log.Fatal("no students match the current filters")
	}

	session.MarkAllVisible(canonical)

	byReg := make(map[string]string, len(visible))
	for _, s := range visible {
		byReg[s.RegistrationNumber] = s.ID
	}
	for _, reg := range splitRegs(absentRegs) {
		id, ok := byReg[reg]
		if !ok {
			log.Fatalf("registration number %q is not in the visible roster", reg)
		}
		session.SetStatus(id, models.StatusAbsent)
	}

	result, err := session.Submit(ctx)
	if err != nil {
		log.Fatalf("submit rejected: %v", err)
	}

	fmt.Printf("Submitted %d records: %d succeeded, %d failed\n",
		result.Submitted, result.SuccessCount, len(result.Failed))
	for _, reg := range result.Failed {
		fmt.Printf("  failed: %s\n", reg)
	}
	if result.SuccessCount == 0 {
		os.Exit(1)
	}
}

func splitRegs(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	regs := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			regs = append(regs, trimmed)
		}
	}
	return regs
}
