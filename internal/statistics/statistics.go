// Package statistics aggregates per-hand results from simulated matches.
// Amounts are normalised to big blinds so runs with different stake
// configurations stay comparable.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// HandResult is the outcome of a single simulated hand from the point of
// view of the tracked seat.
type HandResult struct {
	NetBB          float64 // net big blinds won or lost
	Seed           int64   // deck seed, kept for replaying the hand
	Seat           int     // seat the tracked strategy occupied
	WentToShowdown bool
	FinalPotBB     float64 // total chips awarded this hand, in bb
	StreetReached  string  // PRE_FLOP, FLOP, TURN or RIVER
}

// SeatStats accumulates results for one seat position.
type SeatStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Mean returns the per-hand average for this position.
func (p SeatStats) Mean() float64 {
	if p.Hands == 0 {
		return 0
	}
	return p.SumBB / float64(p.Hands)
}

// Statistics accumulates hand results across a simulation run.
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
	Values []float64 // per-hand net bb, kept for median/percentiles

	// Showdown vs fold-equity split. Both buckets hold wins and losses.
	ShowdownWins    int
	UncontestedWins int
	ShowdownBB      float64
	UncontestedBB   float64
	StreetsReached  map[string]int
	MaxPotBB        float64
	SeatResults     []SeatStats
}

// New returns statistics sized for a table with the given seat count.
func New(seats int) *Statistics {
	return &Statistics{
		SeatResults:    make([]SeatStats, seats),
		StreetsReached: make(map[string]int),
	}
}

// Add incorporates one hand result.
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if result.WentToShowdown {
		s.ShowdownBB += netBB
		if netBB > 0 {
			s.ShowdownWins++
		}
	} else {
		s.UncontestedBB += netBB
		if netBB > 0 {
			s.UncontestedWins++
		}
	}

	if result.StreetReached != "" {
		s.StreetsReached[result.StreetReached]++
	}
	if result.FinalPotBB > s.MaxPotBB {
		s.MaxPotBB = result.FinalPotBB
	}
	if result.Seat >= 0 && result.Seat < len(s.SeatResults) {
		p := &s.SeatResults[result.Seat]
		p.Hands++
		p.SumBB += netBB
		p.SumBB2 += netBB * netBB
	}
}

// Mean returns the arithmetic mean in big blinds per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median per-hand result.
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the value at p in [0,1] over all results.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

// Validate cross-checks the internal tallies.
func (s *Statistics) Validate() error {
	if s.Hands != len(s.Values) {
		return fmt.Errorf("hand count %d does not match %d recorded values", s.Hands, len(s.Values))
	}
	total := s.ShowdownBB + s.UncontestedBB
	if math.Abs(total-s.SumBB) > 1e-6 {
		return fmt.Errorf("showdown/uncontested split %.4f does not sum to total %.4f", total, s.SumBB)
	}
	seatHands := 0
	for _, p := range s.SeatResults {
		seatHands += p.Hands
	}
	if seatHands != s.Hands {
		return fmt.Errorf("seat tallies cover %d hands, expected %d", seatHands, s.Hands)
	}
	return nil
}
