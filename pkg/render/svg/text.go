package svg

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Approximate glyph widths as a fraction of the font size, tuned for the
// common sans-serif stacks. Good enough to decide truncation without
// measuring real font metrics.
const (
	narrowChars = "iljI.,:;'|!()[] "
	wideChars   = "mwMW@%&"
)

func charWidth(r rune) float64 {
	switch {
	case strings.ContainsRune(narrowChars, r):
		return 0.30
	case strings.ContainsRune(wideChars, r):
		return 0.80
	case r >= 'A' && r <= 'Z':
		return 0.66
	case r >= '0' && r <= '9':
		return 0.55
	default:
		return 0.52
	}
}

func textWidth(s string, size float64) float64 {
	w := 0.0
	for _, r := range s {
		w += charWidth(r)
	}
	return w * size
}

// truncate shortens s so it fits avail pixels at the given font size,
// appending ".." when anything was cut. Returns "" when not even two
// characters fit.
func truncate(s string, size, avail float64) string {
	if textWidth(s, size) <= avail {
		return s
	}
	const ellipsis = ".."
	avail -= textWidth(ellipsis, size)

	w := 0.0
	runes := []rune(s)
	for i, r := range runes {
		w += charWidth(r) * size
		if w > avail {
			if i < 2 {
				return ""
			}
			return string(runes[:i]) + ellipsis
		}
	}
	return s
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
