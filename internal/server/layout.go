package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/pipeline"
	"github.com/Bravo-Actual/timegrid/pkg/timeline"
)

// handleLayout composes a layout from inline events. The endpoint is
// stateless; it accepts pipeline options as its body but refuses source
// refs, since the server must not read arbitrary files or feeds on behalf
// of a request body.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if opts.Source != "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidSource,
			"layout endpoint accepts inline events only"))
		return
	}
	opts.Logger = s.logger

	events, _, err := s.runner.LoadWithCacheInfo(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	layout, err := s.runner.Compose(r.Context(), events, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}

// handleScheduleSVG renders a stored schedule as SVG. View, range, and
// geometry come from the query string.
func (s *Server) handleScheduleSVG(w http.ResponseWriter, r *http.Request) {
	sched, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := viewQueryOptions(r.URL.Query(), sched.Zone)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Events = sched.Events
	opts.Formats = []string{pipeline.FormatSVG}
	opts.Grid = true
	opts.Headers = true
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(result.Artifacts[pipeline.FormatSVG])
}

// viewQueryOptions translates ?view=&from=&days=&hours=&px=&snap=&zone=
// &highlight= into pipeline options. The zone falls back to the schedule's
// zone, and the range anchors at today when from is absent.
func viewQueryOptions(q url.Values, fallbackZone string) (pipeline.Options, error) {
	opts := pipeline.Options{
		View: q.Get("view"),
		Zone: q.Get("zone"),
	}
	if opts.Zone == "" {
		opts.Zone = fallbackZone
	}

	loc := time.UTC
	if opts.Zone != "" {
		l, err := time.LoadLocation(opts.Zone)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidZone, err, "zone %s", opts.Zone)
		}
		loc = l
	}

	from := time.Now().In(loc)
	if v := q.Get("from"); v != "" {
		t, err := parseFromParam(v, loc)
		if err != nil {
			return opts, err
		}
		from = t
	}
	// Anchor at midnight so equal requests share cache keys.
	y, m, d := from.Date()
	opts.From = time.Date(y, m, d, 0, 0, 0, 0, loc)

	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "days %q is not a number", v)
		}
		opts.Days = n
	}
	if v := q.Get("px"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "px %q is not a number", v)
		}
		opts.PixelsPerHour = f
	}
	if v := q.Get("snap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "snap %q is not a number", v)
		}
		opts.SnapMinutes = n
	}

	window, err := timeline.ParseHourWindow(q.Get("hours"))
	if err != nil {
		return opts, err
	}
	if window != nil {
		opts.HourStart = window.Start
		opts.HourEnd = window.End
	}

	if v := q.Get("highlight"); v != "" {
		opts.Highlight = strings.Split(v, ",")
	}

	return opts, nil
}

// parseFromParam accepts a civil date (2006-01-02) in loc or a full
// RFC 3339 timestamp.
func parseFromParam(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", v, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, errors.New(errors.ErrCodeInvalidInput,
			"from %q must be a date (2006-01-02) or an RFC 3339 timestamp", v)
	}
	return t.In(loc), nil
}
