// Package commands implements the CLI commands for the autogen cache manager.
package commands

import (
	"context"
	"io"

	"github.com/mayer2014/appserver/internal/adapters/config"
	"github.com/mayer2014/appserver/internal/app"
	"github.com/spf13/cobra"
)

// CLI represents the command line interface for autogen.
type CLI struct {
	app     *app.Manager
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given cache manager.
func New(a *app.Manager) *CLI {
	rootCmd := &cobra.Command{
		Use:           "autogen",
		Short:         "Bootstrap-time cache manager for generated code artifacts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultFilename, "Path to the settings file")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		a.SetConfigPath(path)
		return nil
	}

	rootCmd.AddCommand(c.newWarmCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Used for testing.
func (c *CLI) SetOutput(out io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(out)
}
