// Package naming maps archive dates to file names and back.
// Archives are named <dir>/GitHub-2015-09-16-Wed.tar: a fixed prefix, the
// date rendered with the configured layout and the archive extension.
package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	DefaultPrefix = "GitHub"
	DefaultLayout = "2006-01-02-Mon"
	DefaultExt    = ".tar"

	// prefix, year, month, day, weekday
	tokenCount = 5
)

var (
	ErrInvalidExtension  = errors.New("invalid file extension")
	ErrMalformedFilename = errors.New("malformed filename")
)

// Codec encodes archive names. The zero value is not usable, use New.
type Codec struct {
	Prefix string
	Layout string
	Ext    string
}

// New returns a codec for the given date layout and extension.
// Empty values fall back to the defaults.
func New(layout, ext string) Codec {
	if layout == "" {
		layout = DefaultLayout
	}
	if ext == "" {
		ext = DefaultExt
	}
	return Codec{
		Prefix: DefaultPrefix,
		Layout: layout,
		Ext:    ext,
	}
}

// Encode returns the archive path for date inside dir.
func (c Codec) Encode(dir string, date civil.Date) string {
	name := fmt.Sprintf("%s-%s%s", c.Prefix, date.In(time.UTC).Format(c.Layout), c.Ext)
	return filepath.Join(dir, name)
}

// Decode extracts the archive date from path.
//
// Only the shape of the name is checked. The returned date may be invalid
// (GitHub-2015-09-50-Wed.tar decodes to a date with day 50) and callers must
// check IsValid. The weekday token is ignored.
func (c Codec) Decode(path string) (civil.Date, error) {
	if !strings.HasSuffix(path, c.Ext) {
		return civil.Date{}, fmt.Errorf("%w %s", ErrInvalidExtension, path)
	}

	base := strings.TrimSuffix(filepath.Base(path), c.Ext)
	parts := strings.Split(base, "-")
	if len(parts) != tokenCount {
		return civil.Date{}, fmt.Errorf("%w %s", ErrMalformedFilename, path)
	}

	return c.parseDate(parts[1 : len(parts)-1]), nil
}

// dateLayout is the date-bearing part of the layout, without the weekday.
func (c Codec) dateLayout() []string {
	tokens := strings.Split(c.Layout, "-")
	if len(tokens) > 1 {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// parseDate reads year, month and day without range checks. Anything that
// is not a number yields the zero date, which is invalid.
func (c Codec) parseDate(values []string) civil.Date {
	layout := c.dateLayout()
	if len(layout) != len(values) {
		return civil.Date{}
	}

	var d civil.Date
	for i, tok := range layout {
		v := values[i]
		switch tok {
		case "2006":
			n, err := strconv.Atoi(v)
			if err != nil {
				return civil.Date{}
			}
			d.Year = n
		case "06":
			n, err := strconv.Atoi(v)
			if err != nil {
				return civil.Date{}
			}
			d.Year = 2000 + n
		case "01", "1":
			n, err := strconv.Atoi(v)
			if err != nil {
				return civil.Date{}
			}
			d.Month = time.Month(n)
		case "Jan", "January":
			m, ok := monthByName(v)
			if !ok {
				return civil.Date{}
			}
			d.Month = m
		case "02", "2", "_2":
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return civil.Date{}
			}
			d.Day = n
		}
	}
	return d
}

func monthByName(s string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return m, true
		}
	}
	return 0, false
}

// Validate reports whether the codec produces names Decode can read back.
func (c Codec) Validate() error {
	if !strings.HasPrefix(c.Ext, ".") || len(c.Ext) < 2 {
		return fmt.Errorf("extension %q must start with a dot", c.Ext)
	}
	if strings.Contains(c.Prefix, "-") {
		return fmt.Errorf("prefix %q must not contain dashes", c.Prefix)
	}
	sample := civil.Date{Year: 2015, Month: time.September, Day: 16}
	got, err := c.Decode(c.Encode("", sample))
	if err != nil {
		return fmt.Errorf("date layout %q: %w", c.Layout, err)
	}
	if got != sample {
		return fmt.Errorf("date layout %q does not round trip (got %s)", c.Layout, got)
	}
	return nil
}
