package stream

import (
	"fmt"
	"strings"
)

// Quality is the requested audio quality tier.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ParseQuality accepts "low", "medium" or "high" in any case.
// An empty string means medium.
func ParseQuality(s string) (Quality, error) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(s))); q {
	case "":
		return QualityMedium, nil
	case QualityLow, QualityMedium, QualityHigh:
		return q, nil
	default:
		return "", fmt.Errorf("unknown audio quality %q (want low, medium or high)", s)
	}
}

// preference lists tiers from the requested one outwards.
func (q Quality) preference() []Quality {
	switch q {
	case QualityLow:
		return []Quality{QualityLow, QualityMedium, QualityHigh}
	case QualityHigh:
		return []Quality{QualityHigh, QualityMedium, QualityLow}
	default:
		return []Quality{QualityMedium, QualityHigh, QualityLow}
	}
}

// tier is the declared quality, or one derived from the bitrate.
func (f Format) tier() Quality {
	if f.Quality != "" {
		return f.Quality
	}
	switch kbps := f.Bitrate / 1000; {
	case kbps == 0:
		return QualityMedium
	case kbps < 96:
		return QualityLow
	case kbps < 192:
		return QualityMedium
	default:
		return QualityHigh
	}
}

// SelectFormat picks the best audio-only format for q.
//
// The requested tier is tried first, then the nearest tiers. Within a tier the
// highest declared bitrate wins and the first listed format wins ties.
//
// Example:
//
//	f, ok := stream.SelectFormat(neg.Formats, stream.QualityMedium)
func SelectFormat(formats []Format, q Quality) (Format, bool) {
	for _, tier := range q.preference() {
		var best Format
		found := false
		for _, f := range formats {
			if !f.AudioOnly || f.tier() != tier {
				continue
			}
			if !found || f.Bitrate > best.Bitrate {
				best, found = f, true
			}
		}
		if found {
			return best, true
		}
	}
	return Format{}, false
}
