package timeline

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

// Phase describes a run of monthly savings snapshots anchored on a date
// Point i (From <= i <= To) is dated Anchor + i months and holds Start + Delta*i
type Phase struct {
	Anchor time.Time
	Start  decimal.Decimal
	Delta  decimal.Decimal
	From   int
	To     int
}

// Build concatenates phases into one dated timeline
// Callers chain phases so that each one begins the month after the previous one ends
func Build(phases ...Phase) []domain.TimelinePoint {
	size := 0
	for _, p := range phases {
		if p.To >= p.From {
			size += p.To - p.From + 1
		}
	}

	points := make([]domain.TimelinePoint, 0, size)
	for _, p := range phases {
		for i := p.From; i <= p.To; i++ {
			points = append(points, domain.TimelinePoint{
				Date:    AddMonths(p.Anchor, i),
				Savings: p.Start.Add(p.Delta.Mul(decimal.NewFromInt(int64(i)))),
			})
		}
	}
	return points
}

// AddMonths adds whole calendar months to t
// The day is clamped to the length of the target month (Jan 31 + 1 month = Feb 28/29),
// so consecutive offsets never skip or repeat a calendar month
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()

	total := int(month) - 1 + n
	yearOffset := total / 12
	monthIndex := total % 12
	if monthIndex < 0 {
		monthIndex += 12
		yearOffset--
	}

	targetYear := year + yearOffset
	targetMonth := time.Month(monthIndex + 1)
	if last := daysIn(targetYear, targetMonth, t.Location()); day > last {
		day = last
	}

	return time.Date(targetYear, targetMonth, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
