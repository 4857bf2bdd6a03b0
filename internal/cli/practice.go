package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"mock-interview-service/internal/app"
	"mock-interview-service/internal/config"
	"mock-interview-service/internal/domain"
	"mock-interview-service/internal/logger"
	"mock-interview-service/internal/metrics"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptAgain = "Practice again"
	PromptQuit  = "Quit"
)

// NewPracticeCmd runs a single-candidate interview in the terminal.
func NewPracticeCmd(configPath *string) *cobra.Command {
	var catalogID string
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Answer interview questions in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPractice(cmd.Context(), cmd.OutOrStdout(), *configPath, catalogID)
		},
	}
	cmd.Flags().StringVar(&catalogID, "catalog", "", "question catalog id (defaults to config)")
	return cmd
}

func runPractice(ctx context.Context, out io.Writer, configPath, catalogID string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// the prompt owns the terminal; only debug runs get log output
	l := zap.NewNop()
	if cfg.Log.Debug {
		if l, err = logger.New(cfg.Log.JSON, true); err != nil {
			return err
		}
	}
	defer l.Sync()

	b, err := connectBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	scorer, err := buildScorer(ctx, cfg, l)
	if err != nil {
		return err
	}
	if catalogID == "" {
		catalogID = cfg.Catalog.ID
	}

	service := app.NewInterviewService(buildSessionStore(cfg, b), buildCatalogs(cfg, b), scorer, sessionConfig(cfg, metrics.NewMetrics(), l))
	snap, err := service.Create(ctx, catalogID)
	if err != nil {
		return err
	}
	defer service.End(ctx, snap.SessionID)

	for {
		if err := practiceRound(ctx, out, service, snap.SessionID); err != nil {
			return err
		}

		again := promptui.Select{
			Label: "Done. What next?",
			Items: []string{PromptAgain, PromptQuit},
		}
		_, choice, err := again.Run()
		if err != nil || choice == PromptQuit {
			return nil
		}
		if _, err := service.Restart(ctx, snap.SessionID); err != nil {
			return err
		}
	}
}

func practiceRound(ctx context.Context, out io.Writer, service *app.InterviewService, sessionID string) error {
	for {
		snap, err := service.StartTimer(ctx, sessionID)
		if errors.Is(err, domain.ErrNotInProgress) {
			break
		}
		if err != nil {
			return err
		}
		question, ok := snap.CurrentQuestion()
		if !ok {
			break
		}

		fmt.Fprintf(out, "\nQuestion %d of %d (%ds):\n%s\n", snap.CurrentIndex+1, len(snap.Questions), snap.Countdown.Limit, question.Text)
		prompt := promptui.Prompt{
			Label: "Your answer",
			Validate: func(input string) error {
				if strings.TrimSpace(input) == "" {
					return domain.ErrEmptyAnswer
				}
				return nil
			},
		}
		text, err := prompt.Run()
		if err != nil {
			// ctrl-c or ctrl-d ends the practice run
			return nil
		}

		resp, _, err := service.Submit(ctx, sessionID, domain.AnswerSubmission{QuestionID: question.ID, Text: text})
		switch {
		case errors.Is(err, domain.ErrQuestionMismatch), errors.Is(err, domain.ErrSubmissionInFlight):
			fmt.Fprintf(out, "Time ran out on that question; it was recorded as %q.\n", domain.TimeExpiredAnswer)
			waitIdle(ctx, service, sessionID)
			continue
		case errors.Is(err, domain.ErrNotInProgress):
			fmt.Fprintln(out, "Time ran out on the last question.")
		case err != nil:
			return err
		default:
			fmt.Fprintf(out, "Score: %d/%d\n%s\n", resp.Score, question.MaxScore, resp.Feedback)
		}
	}

	results, err := service.Results(ctx, sessionID)
	if err != nil {
		return err
	}
	printResults(out, results)
	return nil
}

// waitIdle blocks until a pending expiry has been scored.
func waitIdle(ctx context.Context, service *app.InterviewService, sessionID string) {
	updates, cancel, err := service.Subscribe(ctx, sessionID)
	if err != nil {
		return
	}
	defer cancel()
	for snap := range updates {
		if !snap.Evaluating {
			return
		}
	}
}

func printResults(out io.Writer, results domain.Results) {
	fmt.Fprintf(out, "\nTotal: %d/%d (%d%%, %s)\n%s\n", results.TotalScore, results.MaxPossibleScore, results.Percentage, results.Band, results.Verdict)
	for i, q := range results.Questions {
		fmt.Fprintf(out, "\n%d. %s\n   Answer: %s\n   Score: %d/%d (%s)\n   %s\n",
			i+1, q.Question.Text, q.Response.Text, q.Response.Score, q.Question.MaxScore, q.Rating, q.Response.Feedback)
	}
}
