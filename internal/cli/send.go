package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ifcqto/pkg/cache"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
	"github.com/matzehuels/ifcqto/pkg/store"
)

// sendOpts holds the command-line flags for the send command.
type sendOpts struct {
	takeoffFlags
	project string
}

// sendCommand creates the send command.
func (c *CLI) sendCommand() *cobra.Command {
	var opts sendOpts

	cmd := &cobra.Command{
		Use:   "send [model.json]",
		Short: "Save a takeoff to the store and publish it",
		Long: `Compute the takeoff of a model document, save it to the configured
document store and publish it as a QTO message on the configured stream.

Both collaborators are optional: when one is not configured or cannot be
reached, its status is reported and the other still runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSend(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "project name (default: file name up to the first dot)")
	opts.takeoffFlags.register(cmd)

	return cmd
}

func (c *CLI) runSend(ctx context.Context, input string, opts sendOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	m, data, err := c.loadModel(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	filename := filepath.Base(input)
	popts := opts.options(cfg)
	popts.DocumentHash = cache.Hash(data)
	popts.Name = filename

	spinner := newSpinnerWithContext(ctx, "Computing takeoff...")
	spinner.Start()
	result, err := runner.Execute(ctx, m, popts)
	if err != nil {
		spinner.StopWithError("Takeoff failed")
		return fmt.Errorf("takeoff: %w", err)
	}
	msg := pipeline.NewMessage(opts.project, filename, result.Elements, time.Now())

	spinner.SetMessage("Saving takeoff...")
	st := c.openStore(ctx, cfg)
	defer st.Close()
	storeErr := saveMessage(ctx, st, msg)

	spinner.SetMessage("Publishing takeoff...")
	pub := c.openPublisher(ctx, cfg)
	defer pub.Close()
	id, publishErr := pub.Publish(ctx, msg)
	spinner.Stop()

	printSuccess("Sent %d elements of %s", msg.ElementCount, msg.Project)
	printKeyValue("File ID", msg.FileID)
	printKeyValue("Store", statusOf(storeErr))
	printKeyValue("Stream", statusOf(publishErr))
	if publishErr == nil {
		printKeyValue("Message", id)
	}
	if storeErr != nil && publishErr != nil {
		return fmt.Errorf("send %s: neither the store nor the stream accepted the takeoff", msg.FileID)
	}
	return nil
}

// saveMessage stores the project and its takeoff.
func saveMessage(ctx context.Context, st store.Store, msg pipeline.Message) error {
	if _, err := st.SaveProject(ctx, store.NewProject(msg)); err != nil {
		return err
	}
	return st.SaveTakeoff(ctx, msg)
}
