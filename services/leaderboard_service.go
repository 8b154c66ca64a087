package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"algo-journey/leaderboard"
	"algo-journey/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LeaderboardService serves the period leaderboards: weekly member points and
// cumulative group points.
type LeaderboardService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db, Now: time.Now}
}

// WeekWindow returns the UTC week [start, end) offset weeks before the one
// containing now. Weeks start on Sunday.
func WeekWindow(now time.Time, offset int) (time.Time, time.Time) {
	now = now.UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := day.AddDate(0, 0, -int(day.Weekday())-7*offset)
	return start, start.AddDate(0, 0, 7)
}

type WeeklyEntry struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Points   float64 `json:"weeklyPoints"`
}

type RankedWeeklyEntry struct {
	Rank int `json:"rank"`
	WeeklyEntry
}

// Weekly ranks users by the summed score of their submissions inside the week.
func (s *LeaderboardService) Weekly(ctx context.Context, offset int) ([]RankedWeeklyEntry, time.Time, time.Time, error) {
	start, end := WeekWindow(s.Now(), offset)

	var rows []WeeklyEntry
	if err := s.DB.WithContext(ctx).Model(&models.Submission{}).
		Select("users.id AS id, users.username AS username, SUM(submissions.score) AS points").
		Joins("JOIN users ON users.id = submissions.user_id AND users.deleted_at IS NULL").
		Where("submissions.created_at >= ? AND submissions.created_at < ?", start, end).
		Group("users.id, users.username").
		Order("users.username ASC").
		Scan(&rows).Error; err != nil {
		return nil, start, end, fmt.Errorf("weekly totals: %w", err)
	}

	ranked := leaderboard.RankByPoints(rows, func(e WeeklyEntry) float64 { return e.Points })
	out := make([]RankedWeeklyEntry, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, RankedWeeklyEntry{Rank: r.Rank, WeeklyEntry: r.Entry})
	}
	return out, start, end, nil
}

type GroupEntry struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CoordinatorName string  `json:"coordinatorName"`
	MemberCount     int     `json:"memberCount"`
	Points          float64 `json:"groupPoints"`
}

type RankedGroupEntry struct {
	Rank int `json:"rank"`
	GroupEntry
}

// Groups ranks every group by its cumulative points.
func (s *LeaderboardService) Groups(ctx context.Context) ([]RankedGroupEntry, error) {
	entries, err := listGroupEntries(s.DB.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	ranked := leaderboard.RankByPoints(entries, func(e GroupEntry) float64 { return e.Points })
	out := make([]RankedGroupEntry, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, RankedGroupEntry{Rank: r.Rank, GroupEntry: r.Entry})
	}
	return out, nil
}

// listGroupEntries returns groups in creation order with coordinator and size.
func listGroupEntries(db *gorm.DB) ([]GroupEntry, error) {
	var groups []models.Group
	if err := db.Preload("Coordinator").Order("created_at ASC, id ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	var counts []struct {
		GroupID string
		Count   int
	}
	if err := db.Model(&models.User{}).
		Select("group_id, COUNT(*) AS count").
		Where("group_id IS NOT NULL").
		Group("group_id").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	size := make(map[string]int, len(counts))
	for _, c := range counts {
		size[c.GroupID] = c.Count
	}

	entries := make([]GroupEntry, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, GroupEntry{
			ID:              g.ID,
			Name:            g.Name,
			CoordinatorName: g.Coordinator.Username,
			MemberCount:     size[g.ID],
			Points:          g.GroupPoints,
		})
	}
	return entries, nil
}

// weekOffset reads weekOffset from the query string or a JSON body.
func weekOffset(c *fiber.Ctx) (int, error) {
	raw := c.Query("weekOffset")
	if raw == "" && c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		var req struct {
			WeekOffset *int `json:"weekOffset"`
		}
		if err := c.BodyParser(&req); err != nil {
			return 0, fmt.Errorf("invalid JSON")
		}
		if req.WeekOffset != nil {
			raw = strconv.Itoa(*req.WeekOffset)
		}
	}
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("weekOffset must be an integer")
	}
	if n < 0 {
		return 0, fmt.Errorf("weekOffset must not be negative")
	}
	return n, nil
}

func (s *LeaderboardService) GetWeekly(c *fiber.Ctx) error {
	offset, err := weekOffset(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	entries, start, end, err := s.Weekly(c.UserContext(), offset)
	if err != nil {
		return loadFailed(c, err)
	}
	return c.JSON(fiber.Map{
		"weekOffset":  offset,
		"weekStart":   start,
		"weekEnd":     end,
		"leaderboard": entries,
	})
}

func (s *LeaderboardService) GetGroups(c *fiber.Ctx) error {
	entries, err := s.Groups(c.UserContext())
	if err != nil {
		return loadFailed(c, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}
