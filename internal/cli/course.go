package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCourseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Course registry commands",
	}

	cmd.AddCommand(newCourseCreateCmd())
	cmd.AddCommand(newCourseGetCmd())
	cmd.AddCommand(newCourseAccessCmd())
	cmd.AddCommand(newCourseVisibilityCmd())
	cmd.AddCommand(newCourseDeleteCmd())

	return cmd
}

func newCourseCreateCmd() *cobra.Command {
	var title, description, visibility, password, contentRef string
	var sections int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new course (teacher only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if visibility == "private" && password == "" {
				return fmt.Errorf("--pass is required for private courses")
			}

			req := map[string]any{
				"title":          title,
				"description":    description,
				"visibility":     visibility,
				"content_ref":    contentRef,
				"total_sections": sections,
			}
			if password != "" {
				req["password"] = password
			}
			var result Course

			if err := client.Post("/api/v1/courses", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Course title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Course description")
	cmd.Flags().StringVar(&visibility, "visibility", "public", "Visibility: public or private")
	cmd.Flags().StringVar(&password, "pass", "", "Course password (required for private courses)")
	cmd.Flags().StringVar(&contentRef, "content", "", "Content reference (required)")
	cmd.Flags().IntVar(&sections, "sections", 0, "Total number of sections (required)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("sections")

	return cmd
}

func newCourseGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <course-id>",
		Short: "Show a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Course

			if err := client.Get("/api/v1/courses/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCourseAccessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "access <course-id>",
		Short: "Check whether you can view a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result AccessResult

			if err := client.Get("/api/v1/courses/"+args[0]+"/access", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newCourseVisibilityCmd() *cobra.Command {
	var visibility, password string

	cmd := &cobra.Command{
		Use:   "visibility <course-id>",
		Short: "Change a course's visibility (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"visibility": visibility}
			if password != "" {
				req["password"] = password
			}
			var result Course

			if err := client.Patch("/api/v1/courses/"+args[0]+"/visibility", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&visibility, "visibility", "", "Visibility: public or private (required)")
	cmd.Flags().StringVar(&password, "pass", "", "Course password (required when going private)")
	_ = cmd.MarkFlagRequired("visibility")

	return cmd
}

func newCourseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/courses/" + args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Course deleted")
			return nil
		},
	}
}
