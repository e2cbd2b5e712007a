package conflict

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/timeline/lanes"
)

// Node fills cycle by lane so parallel events in one cluster read apart.
var laneColors = []string{
	"#dbeafe", "#dcfce7", "#fef3c7", "#fce7f3", "#ccfbf1", "#ede9fe",
}

// ToDOT converts conflict clusters to Graphviz DOT format. Each cluster of
// two or more events becomes a dashed subgraph labeled with its time range;
// inside it, every event is a node colored by its lane and every
// overlapping pair is joined by an edge. Events that conflict with nothing
// are plain nodes outside any subgraph.
//
// The resulting DOT string can be rasterized with [Render].
func ToDOT(clusters []lanes.Cluster, events []event.Event) (string, error) {
	placed, err := lanes.Assign(events)
	if err != nil {
		return "", err
	}
	byID := make(map[string]event.Event, len(events))
	for _, e := range events {
		byID[e.ID] = e
	}

	var buf bytes.Buffer
	buf.WriteString("graph conflicts {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("\n")

	sub := 0
	for _, c := range clusters {
		if len(c.Events) < 2 {
			for _, id := range c.Events {
				writeNode(&buf, "  ", byID[id], placed[id].Lane)
			}
			continue
		}

		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", sub)
		sub++
		fmt.Fprintf(&buf, "    label=%q;\n", clusterLabel(c))
		buf.WriteString("    style=dashed;\n")
		buf.WriteString("    color=\"#9ca3af\";\n")
		for _, id := range c.Events {
			writeNode(&buf, "    ", byID[id], placed[id].Lane)
		}
		for i, a := range c.Events {
			for _, b := range c.Events[i+1:] {
				if event.Overlaps(byID[a], byID[b]) {
					fmt.Fprintf(&buf, "    %q -- %q;\n", a, b)
				}
			}
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func writeNode(buf *bytes.Buffer, indent string, e event.Event, lane int) {
	label := e.Title() + "\n" + timeRange(e.Start, e.End)
	fill := laneColors[lane%len(laneColors)]
	fmt.Fprintf(buf, "%s%q [label=%q, fillcolor=%q];\n", indent, e.ID, label, fill)
}

func clusterLabel(c lanes.Cluster) string {
	return fmt.Sprintf("%s (%d events)", timeRange(c.Start, c.End), len(c.Events))
}

func timeRange(start, end time.Time) string {
	return start.Format("Mon 15:04") + "-" + end.Format("15:04")
}

// Render rasterizes a DOT string. Supported formats are "svg", "png" and
// "dot" (returned unchanged).
func Render(ctx context.Context, dot string, format string) ([]byte, error) {
	var out graphviz.Format
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		out = graphviz.SVG
	case "png":
		out = graphviz.PNG
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unknown conflict format %q (valid: svg, png, dot)", format)
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, out, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == "svg" {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites graphviz's svg element so the document starts
// at the origin and carries pixel dimensions, which keeps the output
// embeddable next to the calendar SVGs.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
