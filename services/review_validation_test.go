package services

import (
	"errors"
	"strings"
	"testing"

	"innovation-portal-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	require.Equal(t, KindValidation, svcErr.Kind)
	names := make([]string, 0, len(svcErr.Fields))
	for _, f := range svcErr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestValidateTransitionInput(t *testing.T) {
	action, version, comment, err := ValidateTransitionInput(TransitionInput{
		Action:               " Advance ",
		ExpectedStateVersion: intPtr(3),
		Comment:              strPtr("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ActionAdvance, action)
	assert.Equal(t, 3, version)
	assert.Nil(t, comment)

	_, _, _, err = ValidateTransitionInput(TransitionInput{Action: "skip", ExpectedStateVersion: intPtr(0)})
	assert.ElementsMatch(t, []string{"action", "expectedStateVersion"}, fieldNames(t, err))

	_, _, _, err = ValidateTransitionInput(TransitionInput{Action: "hold"})
	assert.Equal(t, []string{"expectedStateVersion"}, fieldNames(t, err))

	_, _, _, err = ValidateTransitionInput(TransitionInput{
		Action:               "hold",
		ExpectedStateVersion: intPtr(1),
		Comment:              strPtr(strings.Repeat("a", models.MaxEventComment+1)),
	})
	assert.Equal(t, []string{"comment"}, fieldNames(t, err))
}

func TestValidateScoreInput(t *testing.T) {
	score, comment, err := ValidateScoreInput(ScoreInput{Score: intPtr(5), Comment: strPtr(" fine ")})
	require.NoError(t, err)
	assert.Equal(t, 5, score)
	require.NotNil(t, comment)
	assert.Equal(t, "fine", *comment)

	for _, bad := range []*int{nil, intPtr(0), intPtr(6), intPtr(-1)} {
		_, _, err := ValidateScoreInput(ScoreInput{Score: bad})
		assert.Equal(t, []string{"score"}, fieldNames(t, err))
	}

	_, _, err = ValidateScoreInput(ScoreInput{Score: intPtr(3), Comment: strPtr(strings.Repeat("ü", models.MaxScoreComment+1))})
	assert.Equal(t, []string{"comment"}, fieldNames(t, err))

	_, _, err = ValidateScoreInput(ScoreInput{Score: intPtr(3), Comment: strPtr(strings.Repeat("ü", models.MaxScoreComment))})
	assert.NoError(t, err)
}

func TestResolveTransitionTable(t *testing.T) {
	_, wf, _ := progressFixture(nil)
	cases := []struct {
		current uint
		action  models.ReviewAction
		want    uint
		invalid bool
	}{
		{11, models.ActionAdvance, 12, false},
		{13, models.ActionAdvance, 0, true},
		{12, models.ActionReturn, 11, false},
		{11, models.ActionReturn, 0, true},
		{12, models.ActionHold, 12, false},
		{13, models.ActionTerminalAccept, 13, false},
		{11, models.ActionTerminalReject, 11, false},
		{99, models.ActionHold, 0, true},
	}
	for _, tc := range cases {
		got, err := ResolveTransition(wf, tc.current, tc.action)
		if tc.invalid {
			assert.True(t, IsKind(err, KindInvalidTransition), "%s from %d", tc.action, tc.current)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.ID, "%s from %d", tc.action, tc.current)
	}
}
