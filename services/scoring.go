package services

import (
	"context"
	"fmt"

	"algo-journey/models"

	"gorm.io/gorm"
)

// RecomputeContestScores refreshes every attempt score of a contest from the
// submission ledger and then each affected group's cumulative points.
// Submissions of ineligible members, or on questions outside the contest,
// never count.
func (s *ContestService) RecomputeContestScores(ctx context.Context, contestID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attempts []models.GroupOnContest
		if err := tx.Where("contest_id = ?", contestID).Find(&attempts).Error; err != nil {
			return fmt.Errorf("load attempts: %w", err)
		}

		for _, a := range attempts {
			var total float64
			if err := tx.Model(&models.Submission{}).
				Select("COALESCE(SUM(submissions.score), 0)").
				Joins("JOIN users ON users.id = submissions.user_id AND users.deleted_at IS NULL").
				Joins("JOIN contest_questions ON contest_questions.contest_id = submissions.contest_id AND contest_questions.question_id = submissions.question_id").
				Where("submissions.contest_id = ? AND users.group_id = ? AND users.is_allowed_to_participate = ?",
					contestID, a.GroupID, true).
				Scan(&total).Error; err != nil {
				return fmt.Errorf("sum attempt %s: %w", a.ID, err)
			}
			if err := tx.Model(&models.GroupOnContest{}).Where("id = ?", a.ID).
				Update("score", total).Error; err != nil {
				return fmt.Errorf("update attempt %s: %w", a.ID, err)
			}
			if err := refreshGroupPoints(tx, a.GroupID); err != nil {
				return err
			}
		}
		return nil
	})
}

func refreshGroupPoints(tx *gorm.DB, groupID string) error {
	var points float64
	if err := tx.Model(&models.GroupOnContest{}).
		Select("COALESCE(SUM(score), 0)").
		Where("group_id = ?", groupID).
		Scan(&points).Error; err != nil {
		return fmt.Errorf("sum group %s: %w", groupID, err)
	}
	if err := tx.Model(&models.Group{}).Where("id = ?", groupID).
		Update("group_points", points).Error; err != nil {
		return fmt.Errorf("update group %s: %w", groupID, err)
	}
	return nil
}
