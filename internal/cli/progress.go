package cli

import (
	"github.com/spf13/cobra"
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Progress tracking commands",
	}

	cmd.AddCommand(newProgressGetCmd())
	cmd.AddCommand(newProgressSectionCmd())
	cmd.AddCommand(newProgressTimeCmd())
	cmd.AddCommand(newProgressQuizCmd())

	return cmd
}

func newProgressGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <course-id>",
		Short: "Show your progress in a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Progress

			if err := client.Get("/api/v1/courses/"+args[0]+"/progress", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProgressSectionCmd() *cobra.Command {
	var section int

	cmd := &cobra.Command{
		Use:   "section <course-id>",
		Short: "Report a viewed section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"course_id":  args[0],
				"event_type": "section_viewed",
				"section_id": section,
			}
			var result ProgressEventResult

			if err := client.Post("/api/v1/progress", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&section, "section", 0, "Section number, 1-based (required)")
	_ = cmd.MarkFlagRequired("section")

	return cmd
}

func newProgressTimeCmd() *cobra.Command {
	var seconds int64

	cmd := &cobra.Command{
		Use:   "time <course-id>",
		Short: "Report study time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"course_id":  args[0],
				"event_type": "time_spent",
				"seconds":    seconds,
			}
			var result ProgressEventResult

			if err := client.Post("/api/v1/progress", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seconds, "seconds", 0, "Seconds studied (required)")
	_ = cmd.MarkFlagRequired("seconds")

	return cmd
}

func newProgressQuizCmd() *cobra.Command {
	var quizID string
	var score int

	cmd := &cobra.Command{
		Use:   "quiz <course-id>",
		Short: "Report a quiz score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"course_id":  args[0],
				"event_type": "quiz_score",
				"quiz_id":    quizID,
				"score":      score,
			}
			var result ProgressEventResult

			if err := client.Post("/api/v1/progress", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&quizID, "quiz", "", "Quiz identifier (required)")
	cmd.Flags().IntVar(&score, "score", 0, "Score, 0-100 (required)")
	_ = cmd.MarkFlagRequired("quiz")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
