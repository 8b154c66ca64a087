package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"algo-journey/models"
)

// Archiver stores a finished contest's standings. utils.R2Store implements it.
type Archiver interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

func ArchiveKey(contestID uint) string {
	return fmt.Sprintf("contests/%d/standings.json", contestID)
}

// ArchiveStandings uploads the rendered view and records its URL on the contest.
func (s *ContestService) ArchiveStandings(ctx context.Context, contestID uint) error {
	if s.Archive == nil {
		return nil
	}
	view, err := s.View(ctx, contestID)
	if err != nil {
		return err
	}
	body, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("encode standings: %w", err)
	}

	url, err := s.Archive.Put(ctx, ArchiveKey(contestID), "application/json", body)
	if err != nil {
		return fmt.Errorf("archive contest %d: %w", contestID, err)
	}
	if err := s.DB.WithContext(ctx).Model(&models.Contest{}).Where("id = ?", contestID).
		Update("archived_url", url).Error; err != nil {
		return fmt.Errorf("record archive url: %w", err)
	}
	log.Printf("📦 [ARCHIVE] Contest %d standings stored at %s", contestID, url)
	return nil
}
