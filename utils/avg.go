package utils

import "sync"

// AvgVal is a running average, safe for concurrent use. The zero value is
// an empty average. The driver feeds it per-step latencies and exports it
// as a gauge.
type AvgVal struct {
	lock  sync.Mutex
	sum   float64
	count int64
}

func (a *AvgVal) Add(val float64) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.sum += val
	a.count++
}

// Val returns the current average, 0 when nothing was added yet.
func (a *AvgVal) Val() float64 {
	a.lock.Lock()
	defer a.lock.Unlock()
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

func (a *AvgVal) Count() int64 {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.count
}

func (a *AvgVal) Reset() {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.sum, a.count = 0, 0
}
