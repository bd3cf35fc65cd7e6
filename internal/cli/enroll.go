package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnrollCmd() *cobra.Command {
	var courseID, courseCode, password string

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll in a course by ID or by course code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if courseID == "" && courseCode == "" {
				return fmt.Errorf("--course or --code is required")
			}
			if courseID != "" && courseCode != "" {
				return fmt.Errorf("use --course or --code, not both")
			}

			req := map[string]string{}
			if courseID != "" {
				req["course_id"] = courseID
			}
			if courseCode != "" {
				req["course_code"] = courseCode
			}
			if password != "" {
				req["password"] = password
			}
			var result Enrollment

			if err := client.Post("/api/v1/enroll", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&courseID, "course", "", "Course ID")
	cmd.Flags().StringVar(&courseCode, "code", "", "Course code")
	cmd.Flags().StringVar(&password, "pass", "", "Course password (required for private courses)")

	return cmd
}
