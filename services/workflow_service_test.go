package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndActivateKeepsOneActiveWorkflow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	none, err := env.workflows.GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	first := env.activate(t, "Screening", "Technical", "Final")
	assert.Equal(t, 1, first.Version)
	assert.True(t, first.IsActive)
	assert.NotNil(t, first.ActivatedAt)

	second := env.activate(t, " Intake ", "Panel", "Pilot", "Decision")
	assert.Equal(t, first.Version+1, second.Version)
	assert.Equal(t, 1, env.mem.ActiveWorkflowCount())

	active, err := env.workflows.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
	require.Len(t, active.Stages, 4)
	for i, stage := range active.Stages {
		assert.Equal(t, i+1, stage.Position)
	}
	assert.Equal(t, "Intake", active.Stages[0].Name)

	old, err := env.workflows.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.False(t, old.IsActive)
	assert.Equal(t, "Technical", old.StageName(old.Stages[1].ID))

	missing, err := env.workflows.GetByID(ctx, 777)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCreateAndActivateRejectsInvalidStages(t *testing.T) {
	env := newTestEnv(t)
	cases := map[string][]string{
		"too few":   {"A", "B"},
		"too many":  {"A", "B", "C", "D", "E", "F", "G", "H"},
		"duplicate": {"Screening", "Final", "screening"},
		"blank":     {"Screening", "  ", "Final"},
		"too long":  {"Screening", strings.Repeat("x", 81), "Final"},
	}
	for name, stages := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.workflows.CreateAndActivate(context.Background(), stages, adminID)
			require.Error(t, err)
			var svcErr *ServiceError
			require.True(t, errors.As(err, &svcErr))
			assert.Equal(t, KindValidation, svcErr.Kind)
			assert.NotEmpty(t, svcErr.Fields)
		})
	}
	assert.Equal(t, 0, env.mem.ActiveWorkflowCount())
}

func TestValidateWorkflowStagesAcceptsLongestName(t *testing.T) {
	names, err := ValidateWorkflowStages([]string{"Screening", strings.Repeat("é", 80), "Final"})
	require.NoError(t, err)
	assert.Len(t, names, 3)
}
