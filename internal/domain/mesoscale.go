package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MesoscaleDiscussion is a short-lived advisory polygon retained for the
// query point. Constructed per request and never persisted.
type MesoscaleDiscussion struct {
	Geometry *Geometry  `json:"geometry"`
	Number   *int       `json:"number"`
	Issued   *time.Time `json:"issued"`
	Expires  *time.Time `json:"expires"`
	URL      *string    `json:"url"`
	Title    *string    `json:"title"`
}

// expiryMarker precedes the HHMM expiry token in the feed's folder-path
// text, e.g. "Mesoscale Discussion Till 2030 UTC".
const expiryMarker = "Till"

var discussionNumberRe = regexp.MustCompile(`(\d+)\s*$`)

// FilterMesoscale keeps only discussions whose polygon contains the point
// and whose expiry has not passed. A discussion with an unparsable expiry is
// retained regardless of time: the filter fails open, not closed.
func FilterMesoscale(p Point, feed *MesoscaleFeed) []MesoscaleDiscussion {
	if feed == nil {
		return nil
	}
	now := clock.Now().UTC()
	kept := make([]MesoscaleDiscussion, 0, len(feed.Features))
	for i := range feed.Features {
		f := &feed.Features[i]
		if f.Geometry == nil {
			continue
		}
		if !PointInGeometry(p, f.Geometry) {
			continue
		}
		md := buildDiscussion(f)
		if md.Expires != nil && now.After(*md.Expires) {
			continue
		}
		kept = append(kept, md)
	}
	return kept
}

func buildDiscussion(f *MesoscaleFeature) MesoscaleDiscussion {
	md := MesoscaleDiscussion{Geometry: f.Geometry}
	if f.Properties == nil {
		return md
	}
	md.Title = f.Properties.Name
	md.URL = f.Properties.PopupURL
	md.Number = discussionNumber(f.Properties.Name)
	md.Issued = fileDate(f.Properties.FileDate)
	md.Expires = discussionExpiry(f.Properties.FolderPath, md.Issued)
	return md
}

// discussionNumber pulls the trailing discussion number from the feature
// name, e.g. "Mesoscale Discussion 1680" -> 1680.
func discussionNumber(name *string) *int {
	if name == nil {
		return nil
	}
	m := discussionNumberRe.FindStringSubmatch(strings.TrimSpace(*name))
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

func fileDate(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).UTC()
	return &t
}

// discussionExpiry reconstructs the expiry instant from the bare HHMM token
// following the "Till" marker plus the date portion of the issuance
// timestamp; the feed gives expiry as a clock time without a date. A missing
// marker, a token that is not exactly four digits, or an unknown issuance
// date all yield nil (expiry unknown).
func discussionExpiry(folderPath *string, issued *time.Time) *time.Time {
	if folderPath == nil || issued == nil {
		return nil
	}
	_, rest, found := strings.Cut(*folderPath, expiryMarker)
	if !found {
		return nil
	}
	token, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
	if len(token) != 4 {
		return nil
	}
	hour, errH := strconv.Atoi(token[:2])
	mins, errM := strconv.Atoi(token[2:])
	if errH != nil || errM != nil || hour < 0 || hour > 23 || mins < 0 || mins > 59 {
		return nil
	}
	t := time.Date(issued.Year(), issued.Month(), issued.Day(), hour, mins, 0, 0, time.UTC)
	return &t
}
