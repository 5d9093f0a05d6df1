package services

import (
	"context"
	"testing"
	"time"

	"innovation-portal-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAggregateRounding(t *testing.T) {
	cases := []struct {
		name   string
		scores []int
		avg    *float64
		count  int
	}{
		{name: "three scores", scores: []int{3, 4, 5}, avg: floatPtr(4.0), count: 3},
		{name: "empty", scores: nil, avg: nil, count: 0},
		{name: "half", scores: []int{1, 2}, avg: floatPtr(1.5), count: 2},
		{name: "repeating decimal", scores: []int{1, 2, 2}, avg: floatPtr(1.7), count: 3},
		{name: "single", scores: []int{5}, avg: floatPtr(5.0), count: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computeAggregate(tc.scores)
			assert.Equal(t, tc.count, got.ScoreCount)
			if tc.avg == nil {
				assert.Nil(t, got.AvgScore)
				return
			}
			require.NotNil(t, got.AvgScore)
			assert.InDelta(t, *tc.avg, *got.AvgScore, 1e-9)
		})
	}
}

func TestAggregateManyMatchesSingleAggregate(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, "Screening", "Technical", "Final")
	first := env.submitted(t, submitterID, "Idea one")
	second := env.submitted(t, submitterID, "Idea two")
	unscored := env.submitted(t, otherUserID, "Idea three")
	ctx := context.Background()

	_, err := env.scoring.Upsert(ctx, first.ID, evaluatorAID, 1, nil)
	require.NoError(t, err)
	_, err = env.scoring.Upsert(ctx, first.ID, evaluatorBID, 2, nil)
	require.NoError(t, err)
	_, err = env.scoring.Upsert(ctx, first.ID, adminID, 2, nil)
	require.NoError(t, err)
	_, err = env.scoring.Upsert(ctx, second.ID, evaluatorAID, 4, nil)
	require.NoError(t, err)

	many, err := env.scoring.AggregateMany(ctx, []uint{first.ID, second.ID, unscored.ID})
	require.NoError(t, err)
	for _, id := range []uint{first.ID, second.ID, unscored.ID} {
		single, err := env.scoring.Aggregate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, single, many[id])
	}
	require.NotNil(t, many[first.ID].AvgScore)
	assert.InDelta(t, 1.7, *many[first.ID].AvgScore, 1e-9)
	assert.Equal(t, ScoreAggregate{}, many[unscored.ID])
}

func TestCheckEligibility(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, "Screening", "Technical", "Final")
	ctx := context.Background()

	open := env.submitted(t, submitterID, "Open idea")
	assert.NoError(t, env.scoring.CheckEligibility(ctx, open.ID))

	accepted := env.submitted(t, submitterID, "Accepted idea")
	_, err := env.transition(accepted.ID, models.ActionTerminalAccept, 1)
	require.NoError(t, err)
	err = env.scoring.CheckEligibility(ctx, accepted.ID)
	assert.True(t, IsKind(err, KindForbidden))

	err = env.scoring.CheckEligibility(ctx, 9999)
	assert.True(t, IsKind(err, KindNotFound))

	legacy := &models.Idea{UserID: submitterID, Title: "Legacy", Status: models.IdeaStatusUnderReview}
	require.NoError(t, env.store.Ideas.Create(ctx, legacy))
	assert.NoError(t, env.scoring.CheckEligibility(ctx, legacy.ID))

	legacySubmitted := &models.Idea{UserID: submitterID, Title: "Legacy submitted", Status: models.IdeaStatusSubmitted}
	require.NoError(t, env.store.Ideas.Create(ctx, legacySubmitted))
	err = env.scoring.CheckEligibility(ctx, legacySubmitted.ID)
	assert.True(t, IsKind(err, KindNotUnderReview))

	deletedAt := time.Now().UTC()
	deleted := &models.Idea{UserID: submitterID, Title: "Deleted", Status: models.IdeaStatusUnderReview, DeletedAt: &deletedAt}
	require.NoError(t, env.store.Ideas.Create(ctx, deleted))
	err = env.scoring.CheckEligibility(ctx, deleted.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestSubmitScoreReplacesEvaluatorEntry(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, "Screening", "Technical", "Final")
	idea := env.submitted(t, submitterID, "Rain gardens")
	ctx := context.Background()

	first, agg, err := env.scoring.Submit(ctx, idea.ID, evaluatorAID, 2, strPtr("needs costing"))
	require.NoError(t, err)
	assert.Equal(t, 1, agg.ScoreCount)

	second, agg, err := env.scoring.Submit(ctx, idea.ID, evaluatorAID, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Nil(t, second.Comment)
	assert.Equal(t, 1, agg.ScoreCount)
	require.NotNil(t, agg.AvgScore)
	assert.InDelta(t, 5.0, *agg.AvgScore, 1e-9)

	rows, err := env.scoring.ListForIdea(ctx, idea.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Score)
}

func TestSubmitScoreOnClosedIdeaIsForbidden(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, "Screening", "Technical", "Final")
	idea := env.submitted(t, submitterID, "Closed")
	_, err := env.transition(idea.ID, models.ActionTerminalReject, 1)
	require.NoError(t, err)

	_, _, err = env.scoring.Submit(context.Background(), idea.ID, evaluatorAID, 3, nil)
	assert.True(t, IsKind(err, KindForbidden))

	rows, err := env.scoring.ListForIdea(context.Background(), idea.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBlindReviewScoreListing(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, "Screening", "Technical", "Final")
	idea := env.submitted(t, submitterID, "Shuttle app")
	ctx := context.Background()

	_, _, err := env.scoring.Submit(ctx, idea.ID, evaluatorAID, 4, strPtr("strong"))
	require.NoError(t, err)
	_, _, err = env.scoring.Submit(ctx, idea.ID, evaluatorBID, 2, nil)
	require.NoError(t, err)
	_, err = env.settings.SetBlindReview(ctx, true, adminID)
	require.NoError(t, err)

	owner, err := env.scoring.ListVisible(ctx, submitterViewer, idea.ID)
	require.NoError(t, err)
	require.NotNil(t, owner.Aggregate.AvgScore)
	assert.InDelta(t, 3.0, *owner.Aggregate.AvgScore, 1e-9)
	assert.Equal(t, 2, owner.Aggregate.ScoreCount)
	require.Len(t, owner.Scores, 2)
	for _, entry := range owner.Scores {
		assert.Equal(t, AnonymousUserID, entry.EvaluatorID)
		assert.Equal(t, AnonymousEvaluatorName, entry.EvaluatorName)
		assert.True(t, entry.IsAnonymized)
	}
	assert.Equal(t, 4, owner.Scores[0].Score)
	require.NotNil(t, owner.Scores[0].Comment)
	assert.Equal(t, "strong", *owner.Scores[0].Comment)

	evalA, err := env.scoring.ListVisible(ctx, evaluatorAView, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, evaluatorAID, evalA.Scores[0].EvaluatorID)
	assert.Equal(t, "Eva A", evalA.Scores[0].EvaluatorName)
	assert.Equal(t, AnonymousUserID, evalA.Scores[1].EvaluatorID)

	evalB, err := env.scoring.ListVisible(ctx, evaluatorBView, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, AnonymousUserID, evalB.Scores[0].EvaluatorID)
	assert.Equal(t, evaluatorBID, evalB.Scores[1].EvaluatorID)

	admin, err := env.scoring.ListVisible(ctx, adminViewer, idea.ID)
	require.NoError(t, err)
	assert.Equal(t, evaluatorAID, admin.Scores[0].EvaluatorID)
	assert.Equal(t, evaluatorBID, admin.Scores[1].EvaluatorID)

	_, err = env.scoring.ListVisible(ctx, otherViewer, idea.ID)
	assert.True(t, IsKind(err, KindForbidden))
	_, err = env.scoring.ListVisible(ctx, otherViewer, 31337)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestScoreListingWithBlindReviewOff(t *testing.T) {
	env := newTestEnv(t)
	env.activate(t, "Screening", "Technical", "Final")
	idea := env.submitted(t, submitterID, "Open scores")
	ctx := context.Background()
	_, _, err := env.scoring.Submit(ctx, idea.ID, evaluatorBID, 3, nil)
	require.NoError(t, err)

	owner, err := env.scoring.ListVisible(ctx, submitterViewer, idea.ID)
	require.NoError(t, err)
	require.Len(t, owner.Scores, 1)
	assert.Equal(t, evaluatorBID, owner.Scores[0].EvaluatorID)
	assert.False(t, owner.Scores[0].IsAnonymized)
}

func floatPtr(v float64) *float64 { return &v }
