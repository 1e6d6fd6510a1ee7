package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/prepcoach/internal/session"
	"github.com/abhisek/prepcoach/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [session-id]",
	Short: "Show past practice sessions",
	Long: `List journaled sessions, newest first. With a session ID, print that
session's events in order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStoreFromFlags(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			return printSessionEvents(cmd, st, args[0])
		}

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := st.EventRepo().SessionHistory(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-9s  %-22s  %-8s  %5s  %5s  %6s  %s\n",
			"Session", "Started", "Surface", "Topic", "Origin", "Ans", "Skip", "Avg", "Done")
		fmt.Println(strings.Repeat("─", 130))
		for _, r := range records {
			done := "✓"
			if !r.Completed {
				done = "·"
			}
			avg := "-"
			if r.Answered > 0 {
				avg = fmt.Sprintf("%.1f", r.AverageScore)
			}
			fmt.Printf("%-36s  %-16s  %-9s  %-22s  %-8s  %2d/%-2d  %5d  %6s  %s\n",
				r.SessionID,
				r.StartedAt.Local().Format("2006-01-02 15:04"),
				r.Surface,
				truncate(r.Topic, 22),
				r.Origin,
				r.Answered, r.QuestionCount,
				r.Skipped,
				avg,
				done,
			)
		}
		return nil
	},
}

func printSessionEvents(cmd *cobra.Command, st *store.Store, id string) error {
	events, err := st.EventRepo().QueryPracticeEvents(cmd.Context(), store.QueryOpts{SessionID: id})
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("session %s not found", id)
	}

	fmt.Printf("%-8s  %-19s  %-18s  %-8s  %-10s  %s\n",
		"Seq", "Timestamp", "Event", "Origin", "Question", "Detail")
	fmt.Println(strings.Repeat("─", 90))
	for _, e := range events {
		var detail string
		switch session.EventKind(e.Kind) {
		case session.EventSessionStarted:
			detail = fmt.Sprintf("%d questions for %s", e.QuestionCount, e.Topic)
		case session.EventAnswerRecorded:
			detail = fmt.Sprintf("score %.1f, keywords %.0f%%", e.Score, e.KeywordMatch)
		case session.EventSessionCompleted:
			detail = fmt.Sprintf("%d answered, %d skipped", e.Answered, e.Skipped)
		}
		question := ""
		if e.QuestionID != "" {
			question = fmt.Sprintf("#%d %s", e.QuestionIndex+1, e.QuestionID)
		}
		fmt.Printf("%-8d  %-19s  %-18s  %-8s  %-10s  %s\n",
			e.Sequence,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			e.Origin,
			truncate(question, 10),
			detail,
		)
	}
	return nil
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
}
