package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ifcqto/pkg/cache"
	pkgio "github.com/matzehuels/ifcqto/pkg/io"
	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var flags takeoffFlags

	cmd := &cobra.Command{
		Use:   "browse [model.json]",
		Short: "Explore the takeoff of a model in the terminal",
		Long: `Explore the takeoff of a model in the terminal.

The element table shows volumes and areas; the pane below it lists the
material shares of the element under the cursor. Press enter to print the
element record as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0], flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, flags takeoffFlags) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	m, data, err := c.loadModel(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := flags.options(cfg)
	opts.DocumentHash = cache.Hash(data)
	opts.Name = filepath.Base(input)

	result, err := runner.Execute(ctx, m, opts)
	if err != nil {
		return fmt.Errorf("takeoff: %w", err)
	}

	title := fmt.Sprintf("%s · %d elements", opts.Name, len(result.Elements))
	final, err := tea.NewProgram(NewElementBrowserModel(title, result.Elements), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	fm, ok := final.(ElementBrowserModel)
	if !ok || fm.Selected == nil {
		return nil
	}
	return pkgio.WriteJSON(os.Stdout, []takeoff.Element{*fm.Selected})
}
