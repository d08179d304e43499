package rating

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hudumalink/hudumalink-backend/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidState  = errors.New("invalid state")
	ErrDuplicate     = errors.New("duplicate review")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Service owns reviews and the designer aggregate they feed. The aggregate
// is recomputed from the full review set on every write; correctness over
// throughput at this scale.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

type SubmitInput struct {
	ProjectID  uuid.UUID
	DesignerID uuid.UUID
	Rating     int
	Comment    string
}

// Submit creates the project's review and refreshes the designer's rating
// and review count. Requires the acting user to own the project, the project
// to be completed, and no prior review for the project.
func (s *Service) Submit(ctx context.Context, in SubmitInput, actor *models.User) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var review models.Review

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.First(&project, "id = ?", in.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if project.Client.SubjectID != actor.SubjectID {
			return ErrForbidden
		}

		if project.Status != models.ProjectCompleted {
			return ErrInvalidState
		}

		review = models.Review{
			ProjectID:  in.ProjectID,
			ClientID:   actor.ID,
			DesignerID: in.DesignerID,
			Rating:     in.Rating,
			Comment:    in.Comment,
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}

		return s.recompute(tx, in.DesignerID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// recompute reads every review for the designer and stores the mean rounded
// to one decimal, alongside the review count, on the designer profile.
func (s *Service) recompute(tx *gorm.DB, designerID uuid.UUID) error {
	var ratings []int
	if err := tx.Model(&models.Review{}).
		Where("designer_id = ?", designerID).
		Pluck("rating", &ratings).Error; err != nil {
		return err
	}
	if len(ratings) == 0 {
		return nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := math.Round(float64(sum)/float64(len(ratings))*10) / 10

	return tx.Model(&models.DesignerProfile{}).
		Where("user_id = ?", designerID).
		Updates(map[string]interface{}{
			"rating":       mean,
			"review_count": len(ratings),
		}).Error
}

// Stats summarises a designer's reviews for the public profile.
type Stats struct {
	AverageRating      float64     `json:"average_rating"`
	TotalReviews       int         `json:"total_reviews"`
	RatingDistribution map[int]int `json:"rating_distribution"`
}

func (s *Service) DesignerStats(ctx context.Context, designerID uuid.UUID) (Stats, error) {
	stats := Stats{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}

	var ratings []int
	if err := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("designer_id = ?", designerID).
		Pluck("rating", &ratings).Error; err != nil {
		return stats, err
	}
	if len(ratings) == 0 {
		return stats, nil
	}

	sum := 0
	for _, r := range ratings {
		sum += r
		stats.RatingDistribution[r]++
	}
	stats.TotalReviews = len(ratings)
	stats.AverageRating = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	return stats, nil
}
