// Package ics reads iCalendar (RFC 5545) payloads into event lists.
//
// The parser extracts one event per VEVENT:
//   - UID becomes the event ID; a random UUID is assigned when absent
//   - DTSTART/DTEND define the interval, with a DURATION fallback when
//     DTEND is missing
//   - All-day events (DATE values) span the full civil day in the
//     configured zone
//   - SUMMARY, LOCATION and STATUS ride along as metadata
//
// Recurring events (RRULE) are imported as their single base instance
// only; a warning is logged so the truncation is visible.
package ics

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
)

// Options configures ICS parsing.
type Options struct {
	// Zone interprets floating (zoneless) timestamps and all-day dates.
	// Nil means UTC.
	Zone *time.Location

	// Logger receives warnings about skipped or truncated constructs.
	// Nil discards them.
	Logger *log.Logger
}

// Parse reads VEVENTs from an iCalendar payload.
//
// Individual VEVENTs that cannot be parsed are skipped with a warning so
// one malformed entry does not reject the whole feed. An empty or
// syntactically invalid payload is an error.
func Parse(body []byte, opts Options) ([]event.Event, error) {
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSource, "empty ICS payload")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse ICS")
	}

	loc := opts.Zone
	if loc == nil {
		loc = time.UTC
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	events := make([]event.Event, 0, len(cal.Events()))
	for _, ve := range cal.Events() {
		e, err := parseVEvent(ve, loc, logger)
		if err != nil {
			logger.Warn("skipping unparseable VEVENT", "err", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location, logger *log.Logger) (event.Event, error) {
	var e event.Event

	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		e.ID = p.Value
	} else {
		e.ID = uuid.NewString()
	}

	startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
	if startProp == nil || startProp.Value == "" {
		return e, errors.New(errors.ErrCodeInvalidSource, "VEVENT %s has no DTSTART", e.ID)
	}
	endProp := ve.GetProperty(ical.ComponentPropertyDtEnd)

	if isDateValue(startProp) {
		// All-day: [midnight, next midnight) in the display zone. DTEND
		// in DATE form is already exclusive per RFC 5545.
		day, err := time.ParseInLocation(icsDateLayout, startProp.Value, loc)
		if err != nil {
			return e, errors.Wrap(errors.ErrCodeInvalidSource, err, "VEVENT %s DTSTART", e.ID)
		}
		e.Start = day
		e.End = day.AddDate(0, 0, 1)
		if endProp != nil && isDateValue(endProp) {
			if end, err := time.ParseInLocation(icsDateLayout, endProp.Value, loc); err == nil {
				e.End = end
			}
		}
	} else {
		start, err := parseDateTimeProp(startProp, loc)
		if err != nil {
			return e, errors.Wrap(errors.ErrCodeInvalidSource, err, "VEVENT %s DTSTART", e.ID)
		}
		e.Start = start

		switch {
		case endProp != nil && endProp.Value != "":
			end, err := parseDateTimeProp(endProp, loc)
			if err != nil {
				return e, errors.Wrap(errors.ErrCodeInvalidSource, err, "VEVENT %s DTEND", e.ID)
			}
			e.End = end
		default:
			e.End = e.Start
			if p := ve.GetProperty("DURATION"); p != nil && p.Value != "" {
				dur, err := parseDuration(p.Value)
				if err != nil {
					return e, errors.Wrap(errors.ErrCodeInvalidSource, err, "VEVENT %s DURATION", e.ID)
				}
				e.End = e.Start.Add(dur)
			}
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && p.Value != "" {
		e.SetMeta(event.MetaTitle, p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil && p.Value != "" {
		e.SetMeta(event.MetaLocation, p.Value)
	}
	if p := ve.GetProperty("STATUS"); p != nil && p.Value != "" {
		e.SetMeta(event.MetaStatus, strings.ToLower(p.Value))
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		logger.Warn("recurring event imported as its base instance only",
			"uid", e.ID, "rrule", p.Value)
	}

	if err := e.Validate(); err != nil {
		return e, err
	}
	return e, nil
}

const (
	icsDateLayout     = "20060102"
	icsDateTimeLayout = "20060102T150405"
	icsUTCLayout      = "20060102T150405Z"
)

// isDateValue reports whether a property holds a DATE (all-day) value,
// either via VALUE=DATE or by carrying no time component.
func isDateValue(p *ical.IANAProperty) bool {
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

// parseDateTimeProp resolves a DATE-TIME property to an instant. UTC values
// (Z suffix) and TZID-qualified values carry their own zone; floating values
// are interpreted in loc.
func parseDateTimeProp(p *ical.IANAProperty, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(p.Value)

	if strings.HasSuffix(v, "Z") {
		return time.Parse(icsUTCLayout, v)
	}

	if params := p.ICalParameters; params != nil {
		if tzs, ok := params["TZID"]; ok && len(tzs) > 0 && tzs[0] != "" {
			tzloc, err := time.LoadLocation(tzs[0])
			if err != nil {
				return time.Time{}, errors.Wrap(errors.ErrCodeInvalidZone, err, "TZID %s", tzs[0])
			}
			return time.ParseInLocation(icsDateTimeLayout, v, tzloc)
		}
	}

	return time.ParseInLocation(icsDateTimeLayout, v, loc)
}

// parseDuration parses an RFC 5545 duration (e.g. PT1H30M, P2DT4H, P1W).
// Date components finer than weeks and days are not defined by the RFC.
func parseDuration(v string) (time.Duration, error) {
	s := strings.TrimSpace(strings.ToUpper(v))
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "+")
	if !strings.HasPrefix(s, "P") {
		return 0, errors.New(errors.ErrCodeInvalidSource, "malformed duration %q", v)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'T':
			inTime = true
		default:
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0, errors.New(errors.ErrCodeInvalidSource, "malformed duration %q", v)
			}
			num = ""
			switch {
			case r == 'W':
				total += time.Duration(n) * 7 * 24 * time.Hour
			case r == 'D':
				total += time.Duration(n) * 24 * time.Hour
			case r == 'H' && inTime:
				total += time.Duration(n) * time.Hour
			case r == 'M' && inTime:
				total += time.Duration(n) * time.Minute
			case r == 'S' && inTime:
				total += time.Duration(n) * time.Second
			default:
				return 0, errors.New(errors.ErrCodeInvalidSource, "malformed duration %q", v)
			}
		}
	}
	if num != "" {
		return 0, errors.New(errors.ErrCodeInvalidSource, "malformed duration %q", v)
	}
	if neg {
		total = -total
	}
	return total, nil
}
