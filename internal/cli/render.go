package cli

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
)

// styleDefault keeps the renderer's built-in palette.
const styleDefault = "default"

// stylePalettes maps --style names to box color palettes. The default style
// keeps the renderer's built-in colors; events with explicit color metadata
// keep it regardless of the style.
var stylePalettes = map[string][]string{
	styleDefault: nil,
	"pastel":     {"#8ab6d6", "#9fd8cb", "#f2c6a0", "#d6a2ad", "#b5a8d6", "#a8c6a2"},
	"vivid":      {"#1f6feb", "#2da44e", "#fb8500", "#d63384", "#0aa2c0", "#8250df"},
	"mono":       {"#2f3437", "#4a5156", "#666e74", "#838b91", "#a1a8ae", "#c0c6cb"},
}

// validateStyle checks that the style names a known palette.
func validateStyle(s string) error {
	if _, ok := stylePalettes[s]; !ok {
		return errors.New(errors.ErrCodeInvalidStyle,
			"invalid style: %q (must be 'default', 'pastel', 'vivid', or 'mono')", s)
	}
	return nil
}

// renderCommand creates the render command for the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output       string
		formatsStr   string
		highlightStr string
		style        string
		noCache      bool
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)
	ranges := rangeFlags{}

	cmd := &cobra.Command{
		Use:   "render [events.json|calendar.ics|url|name]",
		Short: "Load events and render a day, week, or timeline view",
		Long: `Load events and render a day, week, or timeline view.

The source may be a schedule JSON file, an ICS file, an http(s) ICS feed
URL, or the name of a source from the config file's [sources] table.

SVG and JSON outputs carry the composed calendar; DOT and PNG outputs carry
the conflict graph of the loaded events.

Results are cached locally for faster subsequent runs.

Examples:
  timegrid render events.json
  timegrid render team.ics --view day --from 2025-03-10 --hours 9-18
  timegrid render https://cal.example.com/team.ics -f svg,json -o week`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := validateStyle(style); err != nil {
				return err
			}
			opts.Palette = stylePalettes[style]
			opts.Highlight = splitList(highlightStr)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if err := ranges.apply(cmd, cfg, &opts); err != nil {
				return err
			}
			opts.Source = resolveSource(cfg, args[0])

			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the source cache")

	// View flags
	cmd.Flags().StringVar(&opts.View, "view", opts.View, "view arrangement: day, week (default), timeline")
	ranges.register(cmd, &opts)
	cmd.Flags().StringVar(&opts.GroupKey, "group-by", opts.GroupKey, "metadata key that assigns timeline events to bands")
	cmd.Flags().Float64Var(&opts.ColumnWidth, "column-width", opts.ColumnWidth, "day column width in pixels (vertical views)")

	// Geometry flags
	cmd.Flags().Float64Var(&opts.PixelsPerHour, "px", opts.PixelsPerHour, "pixels per hour")
	cmd.Flags().IntVar(&opts.SnapMinutes, "snap", opts.SnapMinutes, "snap grid interval in minutes")

	// Render flags
	cmd.Flags().StringVar(&style, "style", styleDefault, "color style: default, pastel, vivid, mono")
	cmd.Flags().StringVar(&highlightStr, "highlight", "", "event IDs to outline (comma-separated)")
	cmd.Flags().BoolVar(&opts.Grid, "grid", opts.Grid, "draw hour lines and day separators")
	cmd.Flags().BoolVar(&opts.Headers, "headers", opts.Headers, "draw column headers and the time gutter")

	return cmd
}

// runRender executes the full pipeline and writes the requested artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s view...", opts.View))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Render complete")
	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	}); err != nil {
		return err
	}

	if result.Stats.BoxCount == 0 {
		printWarning("No events fall inside the selected range")
	}
	printStats(result.Stats.EventCount, result.Stats.BoxCount, result.CacheInfo.RenderHit)

	return nil
}

// artifactWriteParams bundles the arguments for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each rendered format to disk. A single format goes
// to the output path as given; multiple formats share its base with the
// format appended as extension.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)

	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}

		outPath := p.output
		if outPath == "" || len(p.formats) > 1 {
			outPath = base + "." + format
		}

		out, err := openOutput(outPath)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		if err := out.Close(); err != nil {
			return err
		}

		printFile(outPath)
	}
	return nil
}

// basePath derives the base output path from the output and input refs.
// If output is empty, the base comes from the input: local files keep their
// directory, remote refs keep only the final path element. If output carries
// a known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		ref := input
		if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
			ref = path.Base(u.Path)
		}
		base := strings.TrimSuffix(ref, filepath.Ext(ref))
		if base == "" || base == "." || base == "/" {
			base = "schedule"
		}
		return base
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// splitList splits a comma-separated flag value, dropping empty elements.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
