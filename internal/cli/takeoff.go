package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ifcqto/pkg/cache"
	"github.com/matzehuels/ifcqto/pkg/ifc"
	pkgio "github.com/matzehuels/ifcqto/pkg/io"
	"github.com/matzehuels/ifcqto/pkg/pipeline"
)

// takeoffOpts holds the command-line flags for the takeoff command.
type takeoffOpts struct {
	takeoffFlags
	format  string // output format: json or xlsx
	output  string // output file path (stdout for json when "-")
	project string // sheet title for xlsx output
	summary bool   // print a material summary table
}

// takeoffCommand creates the takeoff command.
func (c *CLI) takeoffCommand() *cobra.Command {
	opts := takeoffOpts{format: pipeline.FormatJSON}

	cmd := &cobra.Command{
		Use:   "takeoff [model.json]",
		Short: "Compute the quantity takeoff of a model document",
		Long: `Compute the quantity takeoff of a model document.

Every element of the selected classes gets its net/gross volume, its area and
the share of each of its materials. The result is written as JSON (one record
per element) or as an XLSX bill of quantities (one row per element and
material).

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runTakeoff(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json (default), xlsx")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.qto.<format>, '-' for stdout)")
	cmd.Flags().StringVar(&opts.project, "project", "", "project name shown in the XLSX title (default: file name)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print material volume totals")
	opts.takeoffFlags.register(cmd)

	return cmd
}

// runTakeoff loads the model, computes the takeoff and writes the output.
func (c *CLI) runTakeoff(ctx context.Context, input string, opts takeoffOpts) error {
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

	popts := opts.options(cfg)
	popts.DocumentHash = cache.Hash(data)
	popts.Name = filepath.Base(input)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing takeoff of %d elements...", len(m.Elements)))
	spinner.Start()
	result, err := runner.Execute(ctx, m, popts)
	if err != nil {
		spinner.StopWithError("Takeoff failed")
		return fmt.Errorf("takeoff: %w", err)
	}
	spinner.Stop()

	if opts.output == "-" && opts.format == pipeline.FormatJSON {
		return pkgio.WriteJSON(os.Stdout, result.Elements)
	}

	outputPath := opts.output
	if outputPath == "" || outputPath == "-" {
		outputPath = defaultOutputPath(input, opts.format)
	}

	switch opts.format {
	case pipeline.FormatXLSX:
		err = pkgio.ExportXLSX(outputPath, pkgio.XLSXSheet{
			Title:    pipeline.ProjectName(opts.project, popts.Name),
			Subtitle: popts.Name,
			Elements: result.Elements,
		})
	default:
		err = pkgio.ExportJSON(outputPath, result.Elements)
	}
	if err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Takeoff complete")
	printFile(outputPath)
	printStats(result.Stats, result.CacheInfo.Hit)
	if result.Stats.Incomplete > 0 {
		printWarning("%d elements did not finish within %s", result.Stats.Incomplete, popts.Timeout)
	}
	if opts.summary {
		printNewline()
		fmt.Println(newTable([]string{"Material", "Volume"}, 1).Rows(materialTotals(result.Elements)...).Render())
	}
	printNewline()
	printNextStep("Explore", appName+" browse "+input)

	return nil
}

// loadModel reads and decodes a model document. It returns the raw bytes
// as well, for cache keys.
func (c *CLI) loadModel(path string) (*ifc.Model, []byte, error) {
	prog := newProgress(c.Logger)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read model: %w", err)
	}
	m, err := pkgio.DecodeModel(data)
	if err != nil {
		return nil, nil, fmt.Errorf("load model %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Loaded %s: %d elements, schema %s", filepath.Base(path), len(m.Elements), m.Schema))
	return m, data, nil
}

// defaultOutputPath derives "<input>.qto.<format>" from the input path.
func defaultOutputPath(input, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".qto." + format
}
