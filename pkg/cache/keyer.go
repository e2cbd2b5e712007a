package cache

import "fmt"

// Keyer builds the cache keys used by the pipeline stages.
//
// Stage outputs are content-addressed: the layout key includes a hash of
// the events that produced it, the artifact key a hash of the layout. Any
// change upstream therefore misses downstream automatically.
type Keyer interface {
	// HTTPKey generates a key for a fetched HTTP response (ICS feeds).
	HTTPKey(namespace, key string) string
	// SourceKey generates a key for the load stage.
	SourceKey(ref string, opts SourceKeyOpts) string
	// LayoutKey generates a key for the compose stage.
	LayoutKey(eventsHash string, opts LayoutKeyOpts) string
	// ArtifactKey generates a key for the render stage.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// SourceKeyOpts captures everything besides the ref that changes what a
// source yields.
type SourceKeyOpts struct {
	Zone string `json:"zone,omitempty"`
}

// LayoutKeyOpts captures the view and geometry inputs of composition.
type LayoutKeyOpts struct {
	View        string  `json:"view"`
	From        string  `json:"from"`
	Days        int     `json:"days"`
	Zone        string  `json:"zone,omitempty"`
	ColumnWidth float64 `json:"column_width,omitempty"`
	GroupKey    string  `json:"group_key,omitempty"`

	PixelsPerHour float64 `json:"pixels_per_hour"`
	SnapMinutes   int     `json:"snap_minutes"`
	HourStart     int     `json:"hour_start,omitempty"`
	HourEnd       int     `json:"hour_end,omitempty"`
}

// ArtifactKeyOpts captures the render inputs for one output format.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	Grid      bool     `json:"grid,omitempty"`
	Headers   bool     `json:"headers,omitempty"`
	Highlight []string `json:"highlight,omitempty"`
	Palette   []string `json:"palette,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
}

// DefaultKeyer hashes key parts with SHA-256 under a stage prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching. The raw key stays
// readable; hashing happens at the storage layer.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// SourceKey generates a key for loaded events.
func (k *DefaultKeyer) SourceKey(ref string, opts SourceKeyOpts) string {
	return hashKey("source", ref, opts)
}

// LayoutKey generates a key for composed layouts.
func (k *DefaultKeyer) LayoutKey(eventsHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", eventsHash, opts)
}

// ArtifactKey generates a key for rendered artifacts.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
