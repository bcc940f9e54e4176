package services

import (
	"context"
	"fmt"
	"strings"

	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"
)

type FeedbackService interface {
	Submit(ctx context.Context, f *models.Feedback) error
	Get(ctx context.Context, id uint) (*models.Feedback, error)
	List(ctx context.Context, q repository.ListQuery) ([]models.Feedback, int64, error)
	Update(ctx context.Context, f *models.Feedback) error
	Delete(ctx context.Context, id uint) error
}

type feedbackService struct {
	repo repository.FeedbackRepository
}

func NewFeedbackService(repo repository.FeedbackRepository) FeedbackService {
	return &feedbackService{repo: repo}
}

func (s *feedbackService) Submit(ctx context.Context, f *models.Feedback) error {
	if err := validateFeedback(f); err != nil {
		return err
	}
	f.IsApproved = false
	if err := s.repo.Create(ctx, f); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}
	return nil
}

func (s *feedbackService) Get(ctx context.Context, id uint) (*models.Feedback, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "feedback")
	}
	return f, nil
}

func (s *feedbackService) List(ctx context.Context, q repository.ListQuery) ([]models.Feedback, int64, error) {
	if q.OrderBy == "" {
		q.OrderBy = "created_at DESC"
	}
	return s.repo.List(ctx, q)
}

func (s *feedbackService) Update(ctx context.Context, f *models.Feedback) error {
	if err := validateFeedback(f); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, f.ID)
	if err != nil {
		return notFound(err, "feedback")
	}
	f.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, f); err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	return nil
}

func (s *feedbackService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "feedback")
	}
	return nil
}

func validateFeedback(f *models.Feedback) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Comments = strings.TrimSpace(f.Comments)

	v := &ValidationError{}
	checkLength(v, "name", f.Name, 100)
	if f.Email != "" && !validEmail(f.Email) {
		v.add("email", "Enter a valid email address.")
	}
	if _, ok := models.RatingLabels[f.Rating]; !ok {
		v.add("rating", "Select a rating between 1 and 5.")
	}
	requireText(v, "comments", f.Comments, 0)
	return v.errOrNil()
}

type ContactService interface {
	Submit(ctx context.Context, c *models.ContactSubmission) error
	Get(ctx context.Context, id uint) (*models.ContactSubmission, error)
	List(ctx context.Context, q repository.ListQuery) ([]models.ContactSubmission, int64, error)
	Update(ctx context.Context, c *models.ContactSubmission) error
	Delete(ctx context.Context, id uint) error
}

type contactService struct {
	repo repository.ContactRepository
}

func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo}
}

func (s *contactService) Submit(ctx context.Context, c *models.ContactSubmission) error {
	if err := validateContact(c); err != nil {
		return err
	}
	c.IsReviewed = false
	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("failed to save contact submission: %w", err)
	}
	return nil
}

func (s *contactService) Get(ctx context.Context, id uint) (*models.ContactSubmission, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "contact submission")
	}
	return c, nil
}

func (s *contactService) List(ctx context.Context, q repository.ListQuery) ([]models.ContactSubmission, int64, error) {
	if q.OrderBy == "" {
		q.OrderBy = "submitted_at DESC"
	}
	return s.repo.List(ctx, q)
}

func (s *contactService) Update(ctx context.Context, c *models.ContactSubmission) error {
	if err := validateContact(c); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return notFound(err, "contact submission")
	}
	c.SubmittedAt = existing.SubmittedAt
	if err := s.repo.Update(ctx, c); err != nil {
		return fmt.Errorf("failed to update contact submission: %w", err)
	}
	return nil
}

func (s *contactService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "contact submission")
	}
	return nil
}

func validateContact(c *models.ContactSubmission) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Message = strings.TrimSpace(c.Message)

	v := &ValidationError{}
	requireText(v, "name", c.Name, 100)
	if c.Email == "" {
		v.add("email", "This field is required.")
	} else if !validEmail(c.Email) {
		v.add("email", "Enter a valid email address.")
	}
	requireText(v, "message", c.Message, 0)
	return v.errOrNil()
}
