package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
)

type TagService struct {
	repos *repositories.Repositories
}

func NewTagService(repos *repositories.Repositories) *TagService {
	return &TagService{repos: repos}
}

// Create adds a tag; names are unique and colors come from the fixed palette.
func (s *TagService) Create(ctx context.Context, creatorID uint, name, color string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidField("name", "is required")
	}
	if len([]rune(name)) > 30 {
		return nil, invalidField("name", "must be at most 30 characters")
	}
	if !models.IsTagColor(color) {
		return nil, invalidField("color", "must be one of "+strings.Join(models.TagColors, ", "))
	}
	tag := &models.Tag{Name: name, Color: color, CreatedByID: creatorID}
	if err := s.repos.Tags.CreateTag(ctx, tag); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, invalidField("name", "already exists")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.repos.Tags.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
