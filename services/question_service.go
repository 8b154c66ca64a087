package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"algo-journey/leaderboard"
	"algo-journey/middleware"
	"algo-journey/models"
	"algo-journey/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	CategoryAlgorithms     = "algorithms"
	CategoryDataStructures = "dataStructures"
	CategoryConcepts       = "concepts"
)

var topicCategories = map[string]string{
	"PrefixSum":       CategoryAlgorithms,
	"TwoPointers":     CategoryAlgorithms,
	"BinarySearch":    CategoryAlgorithms,
	"LinearSearch":    CategoryAlgorithms,
	"Sorting":         CategoryAlgorithms,
	"DP":              CategoryAlgorithms,
	"Recursion":       CategoryAlgorithms,
	"1DArrays":        CategoryDataStructures,
	"2DArrays":        CategoryDataStructures,
	"Graph":           CategoryDataStructures,
	"TimeComplexity":  CategoryConcepts,
	"SpaceComplexity": CategoryConcepts,
	"BasicMaths":      CategoryConcepts,
	"Exponentiation":  CategoryConcepts,
}

// TopicCategory groups a tag for the arena; unknown tags are concepts.
func TopicCategory(tag string) string {
	if c, ok := topicCategories[tag]; ok {
		return c
	}
	return CategoryConcepts
}

type QuestionService struct {
	DB *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{DB: db}
}

type TopicProgress struct {
	Total      int    `json:"total"`
	Solved     int    `json:"solved"`
	Percentage int    `json:"percentage"`
	Category   string `json:"category"`
}

// Progress reports, per tag, how many tagged questions the user has solved.
// Any submission with a positive score counts as solved.
func (s *QuestionService) Progress(ctx context.Context, userID string) (map[string]TopicProgress, error) {
	var totals []struct {
		Name  string
		Total int
	}
	if err := s.DB.WithContext(ctx).Table("question_tags").
		Select("tags.name AS name, COUNT(*) AS total").
		Joins("JOIN tags ON tags.id = question_tags.question_tag_id").
		Group("tags.name").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("count tagged questions: %w", err)
	}

	var solved []struct {
		Name   string
		Solved int
	}
	if err := s.DB.WithContext(ctx).Table("question_tags").
		Select("tags.name AS name, COUNT(DISTINCT question_tags.question_id) AS solved").
		Joins("JOIN tags ON tags.id = question_tags.question_tag_id").
		Joins("JOIN submissions ON submissions.question_id = question_tags.question_id").
		Where("submissions.user_id = ? AND submissions.score > 0", userID).
		Group("tags.name").
		Scan(&solved).Error; err != nil {
		return nil, fmt.Errorf("count solved questions: %w", err)
	}

	out := make(map[string]TopicProgress, len(totals))
	for _, t := range totals {
		out[t.Name] = TopicProgress{Total: t.Total, Category: TopicCategory(t.Name)}
	}
	for _, sv := range solved {
		p := out[sv.Name]
		p.Solved = sv.Solved
		if p.Total > 0 {
			p.Percentage = int(math.Round(float64(p.Solved) / float64(p.Total) * 100))
		}
		out[sv.Name] = p
	}
	return out, nil
}

type QuestionWithStatus struct {
	models.Question
	DifficultyLabel string `json:"difficultyLabel"`
	Solved          bool   `json:"solved"`
}

// TopicQuestions lists questions carrying tag, easiest first.
func (s *QuestionService) TopicQuestions(ctx context.Context, tag, userID string) ([]QuestionWithStatus, error) {
	var questions []models.Question
	if err := s.DB.WithContext(ctx).
		Preload("Tags").
		Joins("JOIN question_tags ON question_tags.question_id = questions.id").
		Joins("JOIN tags ON tags.id = question_tags.question_tag_id").
		Where("tags.name = ?", tag).
		Order("questions.points ASC, questions.slug ASC").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("topic questions: %w", err)
	}

	var solvedIDs []string
	if err := s.DB.WithContext(ctx).Model(&models.Submission{}).
		Distinct("question_id").
		Where("user_id = ? AND score > 0", userID).
		Pluck("question_id", &solvedIDs).Error; err != nil {
		return nil, fmt.Errorf("solved questions: %w", err)
	}
	solved := make(map[string]bool, len(solvedIDs))
	for _, id := range solvedIDs {
		solved[id] = true
	}

	out := make([]QuestionWithStatus, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionWithStatus{
			Question:        q,
			DifficultyLabel: leaderboard.DisplayLabel(q.Difficulty),
			Solved:          solved[q.ID],
		})
	}
	return out, nil
}

type CreateQuestionInput struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Difficulty    string   `json:"difficulty"`
	Points        int      `json:"points"`
	LeetcodeURL   *string  `json:"leetcodeUrl"`
	CodeforcesURL *string  `json:"codeforcesUrl"`
	Tags          []string `json:"tags"`
}

func (in *CreateQuestionInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Difficulty = strings.ToUpper(strings.TrimSpace(in.Difficulty))
	if in.Slug = strings.TrimSpace(in.Slug); in.Slug == "" {
		in.Slug = utils.Slugify(in.Title)
	}
	switch {
	case in.Title == "" && in.Slug == "":
		return errors.New("title or slug is required")
	case in.Slug == "":
		return errors.New("title must contain letters or digits")
	case !leaderboard.Difficulty(in.Difficulty).Valid():
		return fmt.Errorf("difficulty must be one of BEGINNER, EASY, MEDIUM, HARD, VERYHARD")
	case in.Points <= 0:
		return errors.New("points must be positive")
	}
	return nil
}

// Create stores a question, creating any tags it names that do not exist yet.
func (s *QuestionService) Create(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	q := models.Question{
		ID:            uuid.NewString(),
		Slug:          in.Slug,
		Title:         in.Title,
		Difficulty:    in.Difficulty,
		Points:        in.Points,
		LeetcodeURL:   in.LeetcodeURL,
		CodeforcesURL: in.CodeforcesURL,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.Question{}).Where("slug = ?", q.Slug).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return ErrQuestionSlugTaken
		}

		for _, name := range appendUnique(nil, in.Tags...) {
			tag := models.QuestionTag{ID: uuid.NewString(), Name: name}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&tag).Error; err != nil {
				return fmt.Errorf("create tag %q: %w", name, err)
			}
			var stored models.QuestionTag
			if err := tx.Where("name = ?", name).First(&stored).Error; err != nil {
				return err
			}
			q.Tags = append(q.Tags, stored)
		}
		return tx.Omit("Tags.*").Create(&q).Error
	})
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *QuestionService) GetTags(c *fiber.Ctx) error {
	tags := []models.QuestionTag{}
	if err := s.DB.WithContext(c.UserContext()).Order("name ASC").Find(&tags).Error; err != nil {
		return fail(c, err)
	}
	return c.JSON(tags)
}

func (s *QuestionService) GetTopicQuestions(c *fiber.Ctx) error {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid JSON")
	}
	if strings.TrimSpace(req.Topic) == "" {
		return badRequest(c, "topic is required")
	}
	questions, err := s.TopicQuestions(c.UserContext(), strings.TrimSpace(req.Topic), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"topic": req.Topic, "questions": questions})
}

func (s *QuestionService) GetProgress(c *fiber.Ctx) error {
	progress, err := s.Progress(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"topicProgress": progress})
}

func (s *QuestionService) CreateQuestion(c *fiber.Ctx) error {
	var in CreateQuestionInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid JSON")
	}
	if err := in.normalize(); err != nil {
		return badRequest(c, err.Error())
	}
	q, err := s.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}
