// internal/service/market/events.go

package market

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/config"
	marketDomain "trendradar/internal/domain/market"
)

// eventLookbackDays is the analysis window behind each event's product
// recommendations.
const eventLookbackDays = 14

// EventRecommendations suggests trending products for the shopping
// events falling within the next daysAhead days.
func (s *Service) EventRecommendations(ctx context.Context, daysAhead int) ([]marketDomain.EventRecommendation, error) {
	return s.eventRecommendations(ctx, time.Now().UTC(), daysAhead)
}

func (s *Service) eventRecommendations(ctx context.Context, now time.Time, daysAhead int) ([]marketDomain.EventRecommendation, error) {
	recommendations := make([]marketDomain.EventRecommendation, 0)

	for _, monthDay := range sortedEventDates() {
		event := config.CalendarEvents[monthDay]

		eventDate, err := nextOccurrence(monthDay, now)
		if err != nil {
			s.logger.Warn("skipping malformed calendar entry",
				zap.String("date", monthDay),
				zap.Error(err))
			continue
		}

		daysUntil := int(eventDate.Sub(now).Hours() / 24)
		if daysUntil > daysAhead {
			continue
		}

		products, err := s.trends.AggregateProductTrends(ctx, []string{event.Name}, event.Categories, eventLookbackDays)
		if err != nil {
			return nil, err
		}

		sort.SliceStable(products, func(i, j int) bool {
			return products[i].TrendScore > products[j].TrendScore
		})
		if len(products) > 10 {
			products = products[:10]
		}

		recommendations = append(recommendations, marketDomain.EventRecommendation{
			EventName:           event.Name,
			EventDate:           eventDate,
			DaysUntilEvent:      daysUntil,
			RecommendedProducts: products,
			// TODO: derive best platforms from per-event sales volume.
			BestPlatforms: []string{},
			// TODO: compute price trends from snapshot history.
			PriceTrends:   map[string]float64{},
			BuyingUrgency: buyingUrgency(daysUntil),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].EventDate.Before(recommendations[j].EventDate)
	})

	return recommendations, nil
}

// nextOccurrence resolves an "MM-DD" calendar entry to its next
// occurrence at midnight UTC. A date already past this year rolls over
// to the next year.
func nextOccurrence(monthDay string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse("01-02", monthDay)
	if err != nil {
		return time.Time{}, err
	}

	occurrence := time.Date(now.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	if occurrence.Before(now) {
		occurrence = occurrence.AddDate(1, 0, 0)
	}
	return occurrence, nil
}

func buyingUrgency(daysUntil int) string {
	switch {
	case daysUntil < 7:
		return "high"
	case daysUntil < 14:
		return "medium"
	default:
		return "low"
	}
}

func sortedEventDates() []string {
	dates := make([]string, 0, len(config.CalendarEvents))
	for monthDay := range config.CalendarEvents {
		dates = append(dates, monthDay)
	}
	sort.Strings(dates)
	return dates
}
