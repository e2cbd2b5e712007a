package pipeline

import (
	"context"
	"fmt"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/render/conflict"
	"github.com/Bravo-Actual/timegrid/pkg/render/svg"
	"github.com/Bravo-Actual/timegrid/pkg/schedule"
	"github.com/Bravo-Actual/timegrid/pkg/timeline/lanes"
)

// =============================================================================
// Rendering
// =============================================================================

// RenderFromLayout generates output artifacts in the requested formats.
//
// The svg and json formats draw the composed calendar from the layout. The
// dot and png formats draw the conflict graph of the loaded events; their
// DOT source is built once and rasterized with graphviz.
func RenderFromLayout(ctx context.Context, layout schedule.Layout, events []event.Event, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svg.Render(layout, buildSVGOptions(opts)...)
		case FormatJSON:
			data, err = schedule.MarshalLayout(layout)
		case FormatDOT, FormatPNG:
			if dot == "" {
				if dot, err = conflictDOT(events); err != nil {
					return nil, fmt.Errorf("render %s: %w", format, err)
				}
			}
			data, err = conflict.Render(ctx, dot, format)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds calendar SVG rendering options.
func buildSVGOptions(opts Options) []svg.Option {
	var svgOpts []svg.Option

	if opts.Grid {
		svgOpts = append(svgOpts, svg.WithGrid())
	}
	if opts.Headers {
		svgOpts = append(svgOpts, svg.WithHeaders())
	}
	if len(opts.Highlight) > 0 {
		svgOpts = append(svgOpts, svg.WithHighlight(opts.Highlight...))
	}
	if len(opts.Palette) > 0 {
		svgOpts = append(svgOpts, svg.WithPalette(opts.Palette...))
	}
	if opts.Scale != 0 {
		svgOpts = append(svgOpts, svg.WithScale(opts.Scale))
	}

	return svgOpts
}

// conflictDOT builds the conflict graph DOT source for the events.
func conflictDOT(events []event.Event) (string, error) {
	clusters, err := lanes.Clusters(events)
	if err != nil {
		return "", err
	}
	return conflict.ToDOT(clusters, events)
}
