package scoring

import (
	"time"

	"hotelier/lib/entities"
)

// Weights of the aggregate score formula: average rate, recency-weighted
// rate and review quantity.
const (
	qualityWeight  = 0.4
	recencyWeight  = 0.4
	quantityWeight = 0.2
)

// recencyFloor is the minimum recency weight, reached once a review is a
// year or older.
const recencyFloor = 0.001

// daysPerYear is the span over which a review's influence decays linearly.
const daysPerYear = 365

// AverageRate returns the arithmetic mean of the overall rate across the
// reviews. ok is false when the list is empty (the mean is undefined).
func AverageRate(reviews []entities.Review) (avg float64, ok bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	total := 0
	for _, r := range reviews {
		total += r.Rate
	}
	return float64(total) / float64(len(reviews)), true
}

// RecencyFactor computes the decay weight of a review created at createdAt,
// evaluated at now (the moment the ranking pass runs, not wall time of
// review creation). The weight decreases linearly from 1 to the floor of
// 0.001 at 365 days.
func RecencyFactor(createdAt, now time.Time) float64 {
	days := int64(now.Sub(createdAt).Hours() / 24)
	if days >= daysPerYear {
		return recencyFloor
	}
	if days < 0 {
		days = 0
	}
	return 1 - float64(days)/daysPerYear
}

// AggregateScore computes the single number used to rank a hotel within its
// city:
//
//	0.4*avg(rate) + 0.4*(sum(rate_i * recency_i)/n) + 0.2*n
//
// ok is false for an empty review list; such a hotel has no defined score
// and must be treated as lowest-ranked by the caller.
func AggregateScore(reviews []entities.Review, now time.Time) (score float64, ok bool) {
	avgRate, ok := AverageRate(reviews)
	if !ok {
		return 0, false
	}

	quantity := len(reviews)

	var weighted float64
	for _, r := range reviews {
		weighted += float64(r.Rate) * RecencyFactor(r.CreatedAt, now)
	}
	weighted /= float64(quantity)

	return avgRate*qualityWeight + weighted*recencyWeight + float64(quantity)*quantityWeight, true
}

// CategoryAverages computes the running mean of each category rating across
// the reviews, using the incremental update avg += (x-avg)/n. The result is
// order-independent up to floating-point rounding. An empty list yields the
// zero value.
func CategoryAverages(reviews []entities.Review) entities.Ratings {
	var avg entities.Ratings
	n := 1.0
	for _, r := range reviews {
		avg.Cleaning += (r.Ratings.Cleaning - avg.Cleaning) / n
		avg.Position += (r.Ratings.Position - avg.Position) / n
		avg.Services += (r.Ratings.Services - avg.Services) / n
		avg.Quality += (r.Ratings.Quality - avg.Quality) / n
		n++
	}
	return avg
}
