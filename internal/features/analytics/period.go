package analytics

import (
	"fmt"
	"time"
)

// GenerateBuckets splits [start, end) into consecutive buckets of the given
// granularity. The last bucket is clamped to end. An empty or inverted range,
// or an unknown granularity, yields no buckets.
func GenerateBuckets(start, end time.Time, granularity Granularity) []Bucket {
	if !end.After(start) || !granularity.Valid() {
		return []Bucket{}
	}

	buckets := []Bucket{}
	for i := 0; ; i++ {
		// Every boundary is derived from start rather than from the previous
		// cursor so month clamping does not drift (Jan 31 -> Feb 29 -> Mar 31).
		bucketStart := advance(start, granularity, i)
		if !bucketStart.Before(end) {
			break
		}
		bucketEnd := advance(start, granularity, i+1)
		if bucketEnd.After(end) {
			bucketEnd = end
		}
		buckets = append(buckets, Bucket{
			Start: bucketStart,
			End:   bucketEnd,
			Label: PeriodLabel(bucketStart, granularity),
		})
	}
	return buckets
}

// PeriodLabel formats t as the period key of its granularity:
// 2006-01-02 for days, 2006-W01 (ISO week) for weeks and 2006-01 for months.
func PeriodLabel(t time.Time, granularity Granularity) string {
	switch granularity {
	case GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	case GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// maxBuckets caps how many periods a single query may span.
var maxBuckets = map[Granularity]int{
	GranularityDay:   366,
	GranularityWeek:  260,
	GranularityMonth: 120,
}

// CheckRange reports ErrRangeTooLarge when [start, end) would produce more
// buckets than its granularity allows. It does not allocate the buckets.
func CheckRange(start, end time.Time, granularity Granularity) error {
	limit, ok := maxBuckets[granularity]
	if !ok {
		return nil
	}
	if end.After(advance(start, granularity, limit)) {
		return fmt.Errorf("%w: at most %d %s buckets", ErrRangeTooLarge, limit, granularity)
	}
	return nil
}

func advance(anchor time.Time, granularity Granularity, steps int) time.Time {
	switch granularity {
	case GranularityWeek:
		return anchor.AddDate(0, 0, 7*steps)
	case GranularityMonth:
		return addMonths(anchor, steps)
	default:
		return anchor.AddDate(0, 0, steps)
	}
}

// addMonths moves t by n calendar months keeping its day of month, clamped to
// the length of the target month.
func addMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
