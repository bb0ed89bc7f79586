package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bivory/roz/internal/state"
	"github.com/bivory/roz/internal/storage"
)

var (
	cleanBefore string
	cleanAll    bool
)

// cleanListLimit bounds the enumeration when cleaning; no realistic install
// accumulates more sessions than this between cleanups.
const cleanListLimit = 10000

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "[User] Remove old sessions",
	Long: `Remove sessions older than the given age.

Sessions under active review (enabled, decision still pending) are never
removed. Durations accept d, h, or m suffixes; a bare number means days.

Examples:
  roz clean              # remove sessions older than 7 days
  roz clean --before 30d # remove sessions older than 30 days
  roz clean --all        # remove everything not under active review`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openStore()
		if err != nil {
			return err
		}

		age := time.Duration(0)
		if !cleanAll {
			age, err = parseDuration(cleanBefore)
			if err != nil {
				return err
			}
		}

		removed, err := cleanSessions(store, age)
		if err != nil {
			return err
		}

		if removed == 0 {
			fmt.Println("No sessions to clean.")
		} else {
			fmt.Printf("Cleaned %d session(s).\n", removed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	cleanCmd.Flags().StringVar(&cleanBefore, "before", "7d", `Age cutoff (e.g. "7d", "30d", "24h")`)
	cleanCmd.Flags().BoolVar(&cleanAll, "all", false, "Remove all sessions")
}

// parseDuration parses an age like "7d", "24h", or "30m". A bare number
// means days; the empty string means the 7-day default.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 7 * 24 * time.Hour, nil
	}

	unit := 24 * time.Hour
	digits := s
	switch {
	case strings.HasSuffix(s, "d"):
		digits = strings.TrimSuffix(s, "d")
	case strings.HasSuffix(s, "h"):
		digits = strings.TrimSuffix(s, "h")
		unit = time.Hour
	case strings.HasSuffix(s, "m"):
		digits = strings.TrimSuffix(s, "m")
		unit = time.Minute
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Invalid duration: %s", s)
	}
	return time.Duration(n) * unit, nil
}

// cleanSessions deletes sessions created before now-age, skipping any still
// under active review. Returns how many were removed.
func cleanSessions(store storage.Store, age time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-age)

	sessions, err := store.ListSessions(cleanListLimit)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, summary := range sessions {
		if !summary.CreatedAt.Before(cutoff) {
			continue
		}

		s, err := store.GetSession(summary.SessionID)
		if err != nil {
			continue // corrupt entries are left for manual inspection
		}
		if s != nil && s.Review.Enabled && s.Review.Decision.Type == state.DecisionPending {
			continue // review still in progress
		}

		if err := store.DeleteSession(summary.SessionID); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}
