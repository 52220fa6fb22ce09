package domain

// RiskRecord is one forecast day's categorical severe-weather risk at the
// query point. Level defaults to "NONE" when no outlook polygon contains
// the point.
type RiskRecord struct {
	Date        string  `json:"date"`
	Level       string  `json:"level"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	AltColor    *string `json:"altcolor"`
}

// riskLevelRanks orders the categorical outlook labels for sortable
// consumers. Unlisted labels rank 0.
var riskLevelRanks = map[string]int{
	"MRGL": 1,
	"SLGT": 2,
	"ENH":  3,
	"MDT":  4,
	"HIGH": 5,
}

// SeverityRank maps an outlook label to its ordinal severity, 0 for
// unrecognized labels.
func SeverityRank(label string) int {
	return riskLevelRanks[label]
}

// ResolveRisks emits one RiskRecord per outlook document. Document i is
// dated today+i days; the documents are consecutive forecast days starting
// today. Within a document the containing feature with the highest priority
// rank wins; ties keep the first seen.
func ResolveRisks(p Point, outlooks []*OutlookDocument) []RiskRecord {
	records := make([]RiskRecord, 0, len(outlooks))
	today := clock.Now().UTC()
	for i, doc := range outlooks {
		date := today.AddDate(0, 0, i).Format("2006-01-02")
		records = append(records, resolveDay(p, doc, date))
	}
	return records
}

func resolveDay(p Point, doc *OutlookDocument, date string) RiskRecord {
	record := RiskRecord{Date: date, Level: "NONE"}
	if doc == nil {
		return record
	}

	var best *OutlookProperties
	bestPriority := 0
	for i := range doc.Features {
		f := &doc.Features[i]
		if f.Geometry == nil || f.Properties == nil {
			continue
		}
		if !PointInGeometry(p, f.Geometry) {
			continue
		}
		priority := 0
		if f.Properties.Priority != nil {
			priority = *f.Properties.Priority
		}
		if best == nil || priority > bestPriority {
			best = f.Properties
			bestPriority = priority
		}
	}

	if best != nil {
		if best.Label != nil {
			record.Level = *best.Label
		}
		record.Description = best.Description
		record.Color = best.Fill
		record.AltColor = best.Stroke
	}
	return record
}
