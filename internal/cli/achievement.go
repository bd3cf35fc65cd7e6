package cli

import (
	"github.com/spf13/cobra"
)

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List your unlocked achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Unlock

			if err := client.Get("/api/v1/achievements", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
