package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the available quiz types",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		profiles, err := c.Profiles(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch profiles: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, p := range profiles {
			fmt.Fprintf(out, "%-28s %s\n", p.ID, p.Title)
			fmt.Fprintf(out, "  %s\n", p.Description)
			fmt.Fprintf(out, "  %d questions, pass at %s, %s\n", p.TotalQuestions, p.PassingScore, p.Difficulty)
			if len(p.Services) > 0 {
				fmt.Fprintf(out, "  Services: %s\n", strings.Join(p.Services, ", "))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}
