package planner_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg-dev/nestegg/internal/planner"
)

func TestPlanner_TrackProgress(t *testing.T) {
	p := planner.New(planner.DefaultTuning())

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	target := start.AddDate(0, 0, 100)

	targetAmount := decimal.NewFromInt(100000)

	t.Run("BehindAtHalfTime", func(t *testing.T) {
		now := start.AddDate(0, 0, 50)

		progress := p.TrackProgress(decimal.NewFromInt(40000), targetAmount, start, target, now)

		assert.Equal(t, "40", progress.ProgressPercentage.String())
		assert.Equal(t, "50", progress.TimeProgressPercentage.String())
		assert.Equal(t, planner.StatusBehind, progress.Status)
		assert.False(t, progress.OnTrack)
		assert.Equal(t, 50, progress.DaysElapsed)
		assert.Equal(t, 50, progress.DaysRemaining)
		assert.Equal(t, "60000", progress.AmountRemaining.String())
	})

	t.Run("AheadAtHalfTime", func(t *testing.T) {
		now := start.AddDate(0, 0, 50)

		progress := p.TrackProgress(decimal.NewFromInt(60000), targetAmount, start, target, now)

		assert.Equal(t, planner.StatusAhead, progress.Status)
		assert.True(t, progress.OnTrack)
	})

	t.Run("OnTrackWithinTolerance", func(t *testing.T) {
		now := start.AddDate(0, 0, 50)

		progress := p.TrackProgress(decimal.NewFromInt(45000), targetAmount, start, target, now)

		assert.Equal(t, planner.StatusOnTrack, progress.Status)
		assert.True(t, progress.OnTrack)
	})

	t.Run("ProjectsCompletionFromRate", func(t *testing.T) {
		now := start.AddDate(0, 0, 50)

		progress := p.TrackProgress(decimal.NewFromInt(40000), targetAmount, start, target, now)

		require.NotNil(t, progress.ProjectedCompletion)
		assert.Equal(t, now.AddDate(0, 0, 75), *progress.ProjectedCompletion)
	})

	t.Run("NoProjectionWithoutContributions", func(t *testing.T) {
		now := start.AddDate(0, 0, 50)

		progress := p.TrackProgress(decimal.Zero, targetAmount, start, target, now)

		assert.Nil(t, progress.ProjectedCompletion)
	})

	t.Run("NoProjectionOnDayOne", func(t *testing.T) {
		progress := p.TrackProgress(decimal.NewFromInt(5000), targetAmount, start, target, start)

		assert.Nil(t, progress.ProjectedCompletion)
		assert.True(t, progress.TimeProgressPercentage.IsZero())
	})

	t.Run("PastDeadline", func(t *testing.T) {
		now := target.AddDate(0, 0, 30)

		progress := p.TrackProgress(decimal.NewFromInt(40000), targetAmount, start, target, now)

		assert.Equal(t, 0, progress.DaysRemaining)
		assert.True(t, progress.MonthsRemaining.IsZero())
		assert.Equal(t, planner.StatusBehind, progress.Status)
	})

	t.Run("MonthsRemaining", func(t *testing.T) {
		now := start.AddDate(0, 0, 55)

		progress := p.TrackProgress(decimal.NewFromInt(40000), targetAmount, start, target, now)

		assert.Equal(t, 45, progress.DaysRemaining)
		assert.Equal(t, "1.5", progress.MonthsRemaining.String())
	})

	t.Run("FundedGoal", func(t *testing.T) {
		now := start.AddDate(0, 0, 50)

		progress := p.TrackProgress(targetAmount, targetAmount, start, target, now)

		assert.Equal(t, "100", progress.ProgressPercentage.String())
		assert.Equal(t, planner.StatusAhead, progress.Status)
		assert.True(t, progress.AmountRemaining.IsZero())
	})

	t.Run("ZeroTargetReportsZeroProgress", func(t *testing.T) {
		now := start.AddDate(0, 0, 50)

		progress := p.TrackProgress(decimal.NewFromInt(500), decimal.Zero, start, target, now)

		assert.True(t, progress.ProgressPercentage.IsZero())
	})
}
