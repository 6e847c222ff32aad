package source

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// XBELRegistry reads the freedesktop recently-used.xbel file.
type XBELRegistry struct {
	Path string
}

type xbelDocument struct {
	Bookmarks []xbelBookmark `xml:"bookmark"`
}

type xbelBookmark struct {
	Href         string            `xml:"href,attr"`
	Added        string            `xml:"added,attr"`
	Modified     string            `xml:"modified,attr"`
	Visited      string            `xml:"visited,attr"`
	Title        string            `xml:"title"`
	Groups       []string          `xml:"info>metadata>groups>group"`
	Applications []xbelApplication `xml:"info>metadata>applications>application"`
}

type xbelApplication struct {
	Name     string `xml:"name,attr"`
	Modified string `xml:"modified,attr"`
}

// Entries implements RecentRegistry. A missing file yields no entries.
func (r XBELRegistry) Entries(ctx context.Context) ([]RecentEntry, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open recent registry: %w", err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseXBEL(f)
}

// ParseXBEL decodes an XBEL document. Bookmarks without an href are skipped.
func ParseXBEL(rd io.Reader) ([]RecentEntry, error) {
	var doc xbelDocument
	if err := xml.NewDecoder(rd).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode xbel: %w", err)
	}

	entries := make([]RecentEntry, 0, len(doc.Bookmarks))
	for _, b := range doc.Bookmarks {
		if strings.TrimSpace(b.Href) == "" {
			continue
		}
		entries = append(entries, RecentEntry{
			URI:         b.Href,
			Modified:    firstTimestamp(b.Modified, b.Visited, b.Added),
			Groups:      bookmarkGroups(b),
			DisplayName: strings.TrimSpace(b.Title),
		})
	}
	return entries, nil
}

// bookmarkGroups returns the explicit groups plus the registering
// applications, which GTK treats as implicit group members.
func bookmarkGroups(b xbelBookmark) []string {
	groups := make([]string, 0, len(b.Groups)+len(b.Applications))
	for _, g := range b.Groups {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	for _, app := range b.Applications {
		if name := strings.TrimSpace(app.Name); name != "" {
			groups = append(groups, name)
		}
	}
	return groups
}

func firstTimestamp(values ...string) time.Time {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
