// Package conflict renders overlap clusters as node-link diagrams.
//
// # Overview
//
// Where the calendar views answer "when is this", the conflict view answers
// "what collides with what": [ToDOT] turns the lane engine's clusters into
// a Graphviz graph with one dashed subgraph per cluster, one node per event
// (colored by lane) and one edge per overlapping pair. [Render] rasterizes
// the DOT via goccy/go-graphviz.
//
// Typical flow:
//
//	clusters, _ := lanes.Clusters(events)
//	dot, _ := conflict.ToDOT(clusters, events)
//	png, err := conflict.Render(ctx, dot, "png")
//
// Passing format "dot" returns the DOT text unchanged, which is what the
// CLI writes when the caller wants to lay the graph out elsewhere.
package conflict
