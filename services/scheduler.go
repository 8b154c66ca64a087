// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"algo-journey/models"

	"github.com/go-co-op/gocron/v2"
)

type scheduledJob struct {
	name  string
	every time.Duration
	run   func()
}

// StartContestScheduler closes ended contests every minute and refreshes the
// scores of running ones every five minutes. Callers Shutdown the scheduler.
func (s *ContestService) StartContestScheduler() (gocron.Scheduler, error) {
	return startJobs([]scheduledJob{
		{name: "completion", every: 1 * time.Minute, run: func() {
			if _, err := s.CompleteEndedContests(context.Background(), time.Now()); err != nil {
				log.Printf("[SCHEDULER] complete contests: %v", err)
			}
		}},
		{name: "score", every: 5 * time.Minute, run: func() {
			if err := s.RefreshActiveScores(context.Background()); err != nil {
				log.Printf("[SCHEDULER] refresh scores: %v", err)
			}
		}},
	})
}

// startJobs registers every job and starts the scheduler. If any job is
// rejected the scheduler is shut down and nothing keeps running.
func startJobs(jobs []scheduledJob) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	for _, job := range jobs {
		if _, err := sched.NewJob(
			gocron.DurationJob(job.every),
			gocron.NewTask(job.run),
			gocron.WithName(job.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			if serr := sched.Shutdown(); serr != nil {
				log.Printf("[SCHEDULER] shutdown after failed %s job: %v", job.name, serr)
			}
			return nil, fmt.Errorf("schedule %s job: %w", job.name, err)
		}
	}

	sched.Start()
	return sched, nil
}

// CompleteEndedContests moves ACTIVE contests whose end has passed to
// COMPLETED, with final scores computed first and standings archived after.
func (s *ContestService) CompleteEndedContests(ctx context.Context, now time.Time) ([]uint, error) {
	var contests []models.Contest
	if err := s.DB.WithContext(ctx).
		Where("status = ? AND end_time <= ?", models.ContestStatusActive, now.UTC()).
		Order("end_time ASC").
		Find(&contests).Error; err != nil {
		return nil, fmt.Errorf("find ended contests: %w", err)
	}

	var completed []uint
	for _, c := range contests {
		if err := s.RecomputeContestScores(ctx, c.ID); err != nil {
			log.Printf("[SCHEDULER] Failed to score contest %d: %v", c.ID, err)
			continue
		}
		if err := s.DB.WithContext(ctx).Model(&models.Contest{}).Where("id = ?", c.ID).
			Update("status", models.ContestStatusCompleted).Error; err != nil {
			log.Printf("[SCHEDULER] Failed to complete contest %d: %v", c.ID, err)
			continue
		}
		log.Printf("✅ Contest %d completed", c.ID)
		completed = append(completed, c.ID)

		if err := s.ArchiveStandings(ctx, c.ID); err != nil {
			log.Printf("⚠️ [ARCHIVE] %v", err)
		}
	}
	return completed, nil
}

func (s *ContestService) RefreshActiveScores(ctx context.Context) error {
	ids, err := s.ActiveContestIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.RecomputeContestScores(ctx, id); err != nil {
			log.Printf("[SCHEDULER] Failed to refresh contest %d: %v", id, err)
		}
	}
	return nil
}

func (s *ContestService) ActiveContestIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := s.DB.WithContext(ctx).Model(&models.Contest{}).
		Where("status = ?", models.ContestStatusActive).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list active contests: %w", err)
	}
	return ids, nil
}
