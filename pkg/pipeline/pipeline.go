// Package pipeline provides the core layout pipeline for Timegrid.
//
// This package implements the complete load → compose → render pipeline that
// can be used by CLI and server components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read events from a JSON file, an ICS file, or an ICS feed URL
//  2. Compose: Position events into a day, week, or timeline layout
//  3. Render: Generate output in various formats (SVG, JSON, DOT, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "team.ics",
//	    View:    "week",
//	    From:    monday,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	events, err := runner.Load(ctx, loadOpts)
//
//	// Compose with existing events
//	layout, err := runner.Compose(ctx, events, composeOpts)
//
//	// Render with existing layout
//	artifacts, err := runner.Render(ctx, layout, events, renderOpts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Bravo-Actual/timegrid/pkg/cache"
	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/schedule"
	"github.com/Bravo-Actual/timegrid/pkg/timeline"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultPixelsPerHour is the default timeline scale. One hour of time
	// occupies this many pixels, so a minute is one pixel.
	DefaultPixelsPerHour = 60.0

	// DefaultSnapMinutes is the default snap grid interval.
	DefaultSnapMinutes = 15
)

// DefaultView is the default view arrangement.
const DefaultView = string(schedule.ViewWeek)

// Format constants for output formats. SVG and JSON carry the composed
// calendar; DOT and PNG carry the conflict graph of the loaded events.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
}

// ValidViews is the set of supported view arrangements.
var ValidViews = map[string]bool{
	string(schedule.ViewDay):      true,
	string(schedule.ViewWeek):     true,
	string(schedule.ViewTimeline): true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Source names a .json file, a .ics file, or an http(s)
	// feed URL. Events supplies the events inline instead; exactly one of
	// the two must be set.
	Source  string        `json:"source,omitempty"`
	Events  []event.Event `json:"events,omitempty"`
	Zone    string        `json:"zone,omitempty"`
	Refresh bool          `json:"refresh,omitempty"`

	// Compose options
	View        string    `json:"view,omitempty"`
	From        time.Time `json:"from,omitempty"`
	Days        int       `json:"days,omitempty"`
	ColumnWidth float64   `json:"column_width,omitempty"`
	GroupKey    string    `json:"group_key,omitempty"`

	// Geometry options. HourStart and HourEnd select a business-hour
	// window; both zero means the full 24-hour day.
	PixelsPerHour float64 `json:"pixels_per_hour,omitempty"`
	SnapMinutes   int     `json:"snap_minutes,omitempty"`
	HourStart     int     `json:"hour_start,omitempty"`
	HourEnd       int     `json:"hour_end,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Grid      bool     `json:"grid,omitempty"`
	Headers   bool     `json:"headers,omitempty"`
	Highlight []string `json:"highlight,omitempty"`
	Palette   []string `json:"palette,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Events is the loaded event list.
	Events []event.Event

	// EventsHash is the content hash of the loaded events.
	EventsHash string

	// Layout contains the composed layout (boxes, columns, bands).
	Layout schedule.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EventCount  int
	BoxCount    int
	LoadTime    time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit    bool // Whether loaded events came from cache
	ComposeHit bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, json, dot, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateView checks that a view name is valid.
func ValidateView(view string) error {
	_, err := schedule.ParseView(view)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForCompose(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading events.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" && o.Events == nil {
		return errors.New(errors.ErrCodeInvalidSource, "source or events is required")
	}
	if o.Source != "" && o.Events != nil {
		return errors.New(errors.ErrCodeInvalidSource, "source and events are mutually exclusive")
	}
	if err := errors.ValidateZone(o.Zone); err != nil {
		return err
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetComposeDefaults sets default values for layout composition.
func (o *Options) SetComposeDefaults() {
	if o.View == "" {
		o.View = DefaultView
	}
	if o.PixelsPerHour == 0 {
		o.PixelsPerHour = DefaultPixelsPerHour
	}
	if o.SnapMinutes == 0 {
		o.SnapMinutes = DefaultSnapMinutes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForCompose validates and sets defaults for layout composition.
func (o *Options) ValidateForCompose() error {
	o.SetComposeDefaults()
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if o.From.IsZero() {
		return errors.New(errors.ErrCodeInvalidInput, "from is required")
	}
	return o.Geometry().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// NeedsConflictGraph returns true if any requested format renders the
// conflict graph and therefore needs the loaded events.
func (o *Options) NeedsConflictGraph() bool {
	for _, f := range o.Formats {
		if f == FormatDOT || f == FormatPNG {
			return true
		}
	}
	return false
}

// Geometry returns the timeline geometry described by the options.
func (o *Options) Geometry() timeline.Geometry {
	g := timeline.Geometry{
		PixelsPerHour: o.PixelsPerHour,
		SnapMinutes:   o.SnapMinutes,
	}
	if o.HourStart != 0 || o.HourEnd != 0 {
		g.Hours = &timeline.HourWindow{Start: o.HourStart, End: o.HourEnd}
	}
	return g
}

// ScheduleOptions returns the composition options described by the options.
func (o *Options) ScheduleOptions() schedule.Options {
	return schedule.Options{
		View:        schedule.View(o.View),
		From:        o.From,
		Days:        o.Days,
		Zone:        o.Zone,
		ColumnWidth: o.ColumnWidth,
		GroupKey:    o.GroupKey,
	}
}

// SourceKeyOpts returns cache key options for event loading.
func (o *Options) SourceKeyOpts() cache.SourceKeyOpts {
	return cache.SourceKeyOpts{
		Zone: o.Zone,
	}
}

// LayoutKeyOpts returns cache key options for layout composition.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		View:          o.View,
		From:          o.From.Format(time.RFC3339),
		Days:          o.Days,
		Zone:          o.Zone,
		ColumnWidth:   o.ColumnWidth,
		GroupKey:      o.GroupKey,
		PixelsPerHour: o.PixelsPerHour,
		SnapMinutes:   o.SnapMinutes,
		HourStart:     o.HourStart,
		HourEnd:       o.HourEnd,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Grid:      o.Grid,
		Headers:   o.Headers,
		Highlight: o.Highlight,
		Palette:   o.Palette,
		Scale:     o.Scale,
	}
}
