package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cache verdict and catalog counts without regenerating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := c.app.Inspect(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("verdict:       %s\n", status.Verdict)
			cmd.Printf("structures:    %d\n", status.Structures)
			cmd.Printf("enforced:      %d\n", status.Enforced)
			cmd.Printf("pending:       %d\n", status.Pending)
			cmd.Printf("cache entries: %d\n", status.CacheEntries)
			return nil
		},
	}
}
