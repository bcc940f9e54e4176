package services

import (
	"context"
	"testing"

	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFeedback(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewFeedbackService(repos.Feedback)

	f := &models.Feedback{Name: " Ada ", Rating: 5, Comments: "Lovely", IsApproved: true}
	require.NoError(t, svc.Submit(ctx, f))
	assert.Equal(t, "Ada", f.Name)
	assert.False(t, f.IsApproved, "new feedback waits for approval")

	err := svc.Submit(ctx, &models.Feedback{Rating: 6, Email: "nope"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "rating")
	assert.Contains(t, verr.Fields, "comments")
	assert.Contains(t, verr.Fields, "email")
}

func TestFeedbackListAndModerate(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewFeedbackService(repos.Feedback)

	require.NoError(t, svc.Submit(ctx, &models.Feedback{Name: "Ada", Rating: 5, Comments: "Great pasta"}))
	require.NoError(t, svc.Submit(ctx, &models.Feedback{Name: "Bob", Rating: 2, Comments: "Cold soup"}))

	results, total, err := svc.List(ctx, repository.ListQuery{Search: "SOUP", SearchFields: []string{"comments"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)

	bob := results[0]
	bob.IsApproved = true
	require.NoError(t, svc.Update(ctx, &bob))

	results, total, err = svc.List(ctx, repository.ListQuery{Filters: map[string]interface{}{"is_approved": true}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Bob", results[0].Name)

	require.NoError(t, svc.Delete(ctx, bob.ID))
	_, err = svc.Get(ctx, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSubmitContact(t *testing.T) {
	ctx := context.Background()
	repos, _ := newRepos(t)
	svc := NewContactService(repos.Contacts)

	c := &models.ContactSubmission{Name: "Ada", Email: "ada@example.com", Message: "Do you cater?"}
	require.NoError(t, svc.Submit(ctx, c))
	assert.NotZero(t, c.ID)
	assert.False(t, c.SubmittedAt.IsZero())

	err := svc.Submit(ctx, &models.ContactSubmission{Email: "bad"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "message")

	c.IsReviewed = true
	require.NoError(t, svc.Update(ctx, c))
	stored, err := svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsReviewed)
}
