package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartIngestScheduler runs a rolling-window refresh for all active
// organizers every interval. The window stays small (days, not the full
// backfill horizon) so the job finishes quickly; deep backfills go through
// the manual ingest endpoint.
func StartIngestScheduler(ingest *IngestService, interval time.Duration, windowDays int) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			log.Printf("Scheduled ingest starting (window %d days)", windowDays)
			summaries, err := ingest.RunIngestion(ctx, "", windowDays, DefaultMaxTournaments)
			if err != nil {
				log.Printf("❌ Scheduled ingest failed: %v", err)
				return
			}

			events, results := 0, 0
			for _, s := range summaries {
				events += s.Events
				results += s.Results
			}
			log.Printf("✅ Scheduled ingest done: %d organizers, %d events, %d results",
				len(summaries), events, results)
		}),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	log.Printf("✅ Ingest scheduler started (every %s)", interval)
	return scheduler, nil
}
