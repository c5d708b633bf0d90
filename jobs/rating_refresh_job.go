package jobs

import (
	"log"
	"time"

	"officials-rating-server/services"
)

// RatingRefreshJob periodically recomputes every official's cached rating.
// Normal writes keep the caches current; this job repairs any drift left by
// failed recomputes or out-of-band data changes.
type RatingRefreshJob struct {
	aggregator *services.RatingAggregator
	interval   time.Duration
	stopChan   chan bool
}

// NewRatingRefreshJob creates a new rating refresh job
func NewRatingRefreshJob(aggregator *services.RatingAggregator, interval time.Duration) *RatingRefreshJob {
	return &RatingRefreshJob{
		aggregator: aggregator,
		interval:   interval,
		stopChan:   make(chan bool),
	}
}

// Start begins the rating refresh job
func (j *RatingRefreshJob) Start() {
	go j.run()
	log.Printf("🚀 Rating refresh job started (every %s)", j.interval)
}

// Stop stops the rating refresh job
func (j *RatingRefreshJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Rating refresh job stopped")
}

func (j *RatingRefreshJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.refresh()
		case <-j.stopChan:
			return
		}
	}
}

func (j *RatingRefreshJob) refresh() {
	start := time.Now()
	if err := j.aggregator.RecomputeAll(); err != nil {
		log.Printf("❌ Scheduled rating refresh failed: %v", err)
		return
	}
	log.Printf("✅ Scheduled rating refresh completed in %s", time.Since(start))
}
