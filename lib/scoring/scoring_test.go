package scoring

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"hotelier/lib/entities"
)

const floatTolerance = 1e-9

func review(rate int, ratings entities.Ratings, age time.Duration, now time.Time) entities.Review {
	return entities.Review{
		HotelName: "Hotel Test",
		City:      "Roma",
		Reviewer:  "tester",
		Rate:      rate,
		Ratings:   ratings,
		CreatedAt: now.Add(-age),
	}
}

// TestAverageRateEmpty verifies the zero-review special case: no defined
// score, no division by zero.
func TestAverageRateEmpty(t *testing.T) {
	if _, ok := AverageRate(nil); ok {
		t.Error("AverageRate(nil) reported ok")
	}
	if _, ok := AggregateScore(nil, time.Now()); ok {
		t.Error("AggregateScore(nil) reported ok")
	}
}

// TestCategoryAveragesMatchArithmeticMean checks that the incremental means
// equal the plain arithmetic means of each category, in any order.
func TestCategoryAveragesMatchArithmeticMean(t *testing.T) {
	now := time.Now()
	reviews := []entities.Review{
		review(5, entities.Ratings{Cleaning: 5, Position: 4, Services: 3, Quality: 2}, 0, now),
		review(3, entities.Ratings{Cleaning: 1, Position: 2, Services: 3, Quality: 4}, time.Hour, now),
		review(4, entities.Ratings{Cleaning: 0, Position: 5, Services: 1, Quality: 5}, 48*time.Hour, now),
	}

	want := entities.Ratings{Cleaning: 2, Position: 11.0 / 3, Services: 7.0 / 3, Quality: 11.0 / 3}

	// shuffle a few times, the result must not depend on traversal order
	for i := 0; i < 5; i++ {
		rand.Shuffle(len(reviews), func(a, b int) { reviews[a], reviews[b] = reviews[b], reviews[a] })
		got := CategoryAverages(reviews)
		for name, pair := range map[string][2]float64{
			"cleaning": {got.Cleaning, want.Cleaning},
			"position": {got.Position, want.Position},
			"services": {got.Services, want.Services},
			"quality":  {got.Quality, want.Quality},
		} {
			if math.Abs(pair[0]-pair[1]) > floatTolerance {
				t.Errorf("%s mean = %v, want %v", name, pair[0], pair[1])
			}
		}
	}
}

// TestRecencyFactorMonotonic verifies the weight never increases with age
// and is clamped to 0.001 from 365 days on.
func TestRecencyFactorMonotonic(t *testing.T) {
	now := time.Now()

	prev := math.Inf(1)
	for days := 0; days <= 800; days += 5 {
		w := RecencyFactor(now.AddDate(0, 0, -days), now)
		if w > prev {
			t.Fatalf("recency weight increased at %d days: %v > %v", days, w, prev)
		}
		prev = w
	}

	if w := RecencyFactor(now, now); w != 1 {
		t.Errorf("weight of a fresh review = %v, want 1", w)
	}
	if w := RecencyFactor(now.AddDate(0, 0, -365), now); w != 0.001 {
		t.Errorf("weight at 365 days = %v, want 0.001", w)
	}
	if w := RecencyFactor(now.AddDate(0, 0, -1000), now); w != 0.001 {
		t.Errorf("weight at 1000 days = %v, want 0.001", w)
	}
}

// TestAggregateScore checks the combined formula on a known input.
func TestAggregateScore(t *testing.T) {
	now := time.Now()

	// two fresh reviews: recency weight 1 for both
	reviews := []entities.Review{
		review(4, entities.Ratings{}, 0, now),
		review(2, entities.Ratings{}, time.Minute, now),
	}

	// avg = 3, weighted = (4+2)/2 = 3, count = 2
	want := 3*0.4 + 3*0.4 + 2*0.2
	got, ok := AggregateScore(reviews, now)
	if !ok {
		t.Fatal("AggregateScore reported not ok")
	}
	if math.Abs(got-want) > floatTolerance {
		t.Errorf("score = %v, want %v", got, want)
	}
}

// TestAggregateScoreStableWithoutNewReviews verifies that recomputation
// with the same inputs and the same instant reproduces the same score.
func TestAggregateScoreStableWithoutNewReviews(t *testing.T) {
	now := time.Now()
	reviews := []entities.Review{
		review(5, entities.Ratings{Cleaning: 5, Position: 5, Services: 5, Quality: 5}, 24*time.Hour, now),
		review(1, entities.Ratings{Cleaning: 1, Position: 1, Services: 1, Quality: 1}, 400*24*time.Hour, now),
	}

	first, _ := AggregateScore(reviews, now)
	second, _ := AggregateScore(reviews, now)
	if first != second {
		t.Errorf("score not stable: %v then %v", first, second)
	}
}
