package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	timegridio "github.com/Bravo-Actual/timegrid/pkg/io"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
)

// importCommand creates the import command for converting calendars to
// schedule JSON.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "import [calendar.ics|url|name]",
		Short: "Convert an ICS calendar into schedule JSON",
		Long: `Convert an ICS calendar into schedule JSON.

The source may be a local .ics file, an http(s) ICS feed URL, or the name of
a source from the config file's [sources] table. The resulting JSON can be
fed back into every other command.

Examples:
  timegrid import team.ics -o events.json
  timegrid import https://cal.example.com/team.ics -o team.json
  timegrid import team.ics > events.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg != nil && !cmd.Flags().Changed("zone") && cfg.Defaults.Zone != "" {
				opts.Zone = cfg.Defaults.Zone
			}
			opts.Source = resolveSource(cfg, args[0])

			return c.runImport(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.Zone, "zone", "", "IANA time zone for floating ICS timestamps")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the source cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runImport loads events from the source and writes them as schedule JSON.
func (c *CLI) runImport(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	c.Logger.Infof("Importing %s", opts.Source)

	prog := newProgress(c.Logger)
	events, cacheHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("import %s: %w", opts.Source, err)
	}
	prog.done(fmt.Sprintf("Imported %d events", len(events)))

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := timegridio.WriteJSON(events, out); err != nil {
		return fmt.Errorf("write events: %w", err)
	}

	// Keep stdout clean when the JSON itself goes there.
	if output != "" {
		printSuccess("Import complete")
		printFile(output)
		printStats(len(events), 0, cacheHit)
		printNewline()
		printNextStep("Render", "timegrid render "+output)
	}
	return nil
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
