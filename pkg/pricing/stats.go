package pricing

import "sort"

type statsKey struct {
	service string
	region  string
}

// APIStats counts how the estimator resolved prices for one service and region
type APIStats struct {
	Service string
	Region  string
	Success int
	Failure int
	Cache   int
}

// APICalls is the number of Pricing API requests made
func (s APIStats) APICalls() int {
	return s.Success + s.Failure
}

// SuccessRate is the share of API requests that produced a price, in percent
func (s APIStats) SuccessRate() float64 {
	if s.APICalls() == 0 {
		return 0
	}
	return float64(s.Success) / float64(s.APICalls()) * 100.0
}

type statType int

const (
	statSuccess statType = iota
	statFailure
	statCache
)

// record updates the tracking statistics for one lookup
func (e *Estimator) record(service, region string, stat statType) {
	e.statsLock.Lock()
	defer e.statsLock.Unlock()

	key := statsKey{service: service, region: region}
	s, ok := e.stats[key]
	if !ok {
		s = &APIStats{Service: service, Region: region}
		e.stats[key] = s
	}

	switch stat {
	case statSuccess:
		s.Success++
	case statFailure:
		s.Failure++
	case statCache:
		s.Cache++
	}
}

// Stats returns a copy of the statistics sorted by service then region
func (e *Estimator) Stats() []APIStats {
	e.statsLock.Lock()
	defer e.statsLock.Unlock()

	stats := make([]APIStats, 0, len(e.stats))
	for _, s := range e.stats {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Service != stats[j].Service {
			return stats[i].Service < stats[j].Service
		}
		return stats[i].Region < stats[j].Region
	})
	return stats
}
