package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

var (
	statsDays   int
	statsOutput string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "[User] Show template A/B test statistics",
	Long: `Show per-template review statistics: how often each block template led
to a completed review, and how many blocks it took.

Outcomes come from the attempt records written by the stop hook and
resolved by roz decide.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}

		report, err := collectTemplateStats(store, statsDays)
		if err != nil {
			return err
		}

		switch statsOutput {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "yaml":
			return yaml.NewEncoder(os.Stdout).Encode(report)
		default:
			printStatsReport(report, statsDays)
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().IntVar(&statsDays, "days", 30, "Number of days to look back")
	statsCmd.Flags().StringVarP(&statsOutput, "output", "o", "table", "Output format: table, json, yaml")
}

// templateStats aggregates attempt outcomes for one template.
type templateStats struct {
	SuccessCount int `json:"success_count" yaml:"success_count"`
	TotalBlocks  int `json:"total_blocks" yaml:"total_blocks"`
	NotSpawned   int `json:"not_spawned" yaml:"not_spawned"`
	NoDecision   int `json:"no_decision" yaml:"no_decision"`
	BadSessionID int `json:"bad_session_id" yaml:"bad_session_id"`
	Pending      int `json:"pending" yaml:"pending"`
}

// record tallies one attempt outcome.
func (t *templateStats) record(outcome *state.AttemptOutcome) {
	switch outcome.Type {
	case state.OutcomeSuccess:
		t.SuccessCount++
		t.TotalBlocks += outcome.BlocksNeeded
	case state.OutcomeNotSpawned:
		t.NotSpawned++
	case state.OutcomeNoDecision:
		t.NoDecision++
	case state.OutcomeBadSessionID:
		t.BadSessionID++
	case state.OutcomePending:
		t.Pending++
	}
}

// failureCount is the resolved failures; pending attempts are not failures.
func (t *templateStats) failureCount() int {
	return t.NotSpawned + t.NoDecision + t.BadSessionID
}

// successRate is the percentage of resolved attempts that succeeded.
func (t *templateStats) successRate() float64 {
	total := t.SuccessCount + t.failureCount()
	if total == 0 {
		return 0
	}
	return float64(t.SuccessCount) / float64(total) * 100
}

// avgBlocks is the mean blocks needed across successful reviews.
func (t *templateStats) avgBlocks() float64 {
	if t.SuccessCount == 0 {
		return 0
	}
	return float64(t.TotalBlocks) / float64(t.SuccessCount)
}

// statsReport is the full stats output for a lookback window.
type statsReport struct {
	Templates            map[string]*templateStats `json:"templates" yaml:"templates"`
	TotalSessions        int                       `json:"total_sessions" yaml:"total_sessions"`
	SessionsWithAttempts int                       `json:"sessions_with_attempts" yaml:"sessions_with_attempts"`
}

// collectTemplateStats aggregates attempt outcomes per template over
// sessions created in the last days days.
func collectTemplateStats(store storage.Store, days int) (*statsReport, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	sessions, err := store.ListSessions(cleanListLimit)
	if err != nil {
		return nil, err
	}

	report := &statsReport{Templates: map[string]*templateStats{}}
	for _, summary := range sessions {
		if summary.CreatedAt.Before(cutoff) {
			continue
		}
		report.TotalSessions++

		s, err := store.GetSession(summary.SessionID)
		if err != nil || s == nil {
			continue
		}
		if len(s.Review.Attempts) > 0 {
			report.SessionsWithAttempts++
		}
		for i := range s.Review.Attempts {
			attempt := &s.Review.Attempts[i]
			entry := report.Templates[attempt.TemplateID]
			if entry == nil {
				entry = &templateStats{}
				report.Templates[attempt.TemplateID] = entry
			}
			entry.record(&attempt.Outcome)
		}
	}

	return report, nil
}

func printStatsReport(report *statsReport, days int) {
	if len(report.Templates) == 0 {
		fmt.Printf("No template statistics available for the last %d days.\n", days)
		fmt.Println()
		fmt.Printf("Sessions analyzed: %d\n", report.TotalSessions)
		fmt.Printf("Sessions with review attempts: %d\n", report.SessionsWithAttempts)
		return
	}

	printStatsTable(report.Templates, days)
	printFailureBreakdown(report.Templates)

	fmt.Println()
	fmt.Printf("Sessions analyzed: %d\n", report.TotalSessions)
	fmt.Printf("Sessions with review attempts: %d\n", report.SessionsWithAttempts)
}

func printStatsTable(stats map[string]*templateStats, days int) {
	rule := strings.Repeat("─", 70)

	fmt.Printf("Template Performance (last %d days):\n", days)
	fmt.Println(rule)
	fmt.Printf("%-12s %10s %10s %12s %14s\n", "Template", "Success", "Failure", "Avg Blocks", "Success Rate")
	fmt.Println(rule)

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		stat := stats[id]
		fmt.Printf("%-12s %10d %10d %12.1f %12.1f%%\n",
			id, stat.SuccessCount, stat.failureCount(), stat.avgBlocks(), stat.successRate())
	}
	fmt.Println(rule)
}

func printFailureBreakdown(stats map[string]*templateStats) {
	var notSpawned, noDecision, badSessionID, pending int
	for _, stat := range stats {
		notSpawned += stat.NotSpawned
		noDecision += stat.NoDecision
		badSessionID += stat.BadSessionID
		pending += stat.Pending
	}

	totalFailures := notSpawned + noDecision + badSessionID
	if totalFailures == 0 && pending == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Failure Breakdown:")

	if totalFailures > 0 {
		pct := func(n int) float64 {
			return float64(n) / float64(totalFailures) * 100
		}
		if notSpawned > 0 {
			fmt.Printf("  NotSpawned:   %4d (%5.1f%%)\n", notSpawned, pct(notSpawned))
		}
		if noDecision > 0 {
			fmt.Printf("  NoDecision:   %4d (%5.1f%%)\n", noDecision, pct(noDecision))
		}
		if badSessionID > 0 {
			fmt.Printf("  BadSessionId: %4d (%5.1f%%)\n", badSessionID, pct(badSessionID))
		}
	}

	if pending > 0 {
		fmt.Printf("  Pending:      %4d\n", pending)
	}
}
