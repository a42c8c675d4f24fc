package categorizer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nestegg-dev/nestegg/internal/categorizer"
	"github.com/nestegg-dev/nestegg/internal/transaction"
)

func TestService_Suggest(t *testing.T) {
	userID := uuid.New()

	t.Run("ReturnsMatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := categorizer.NewMockRepository(ctrl)
		svc := categorizer.NewService(repo)

		repo.EXPECT().
			FindCategory(gomock.Any(), userID, "SWIGGY ORDER 8812").
			Return(transaction.CategoryFood, nil)

		category, err := svc.Suggest(context.Background(), userID, "SWIGGY ORDER 8812")
		require.NoError(t, err)
		assert.Equal(t, transaction.CategoryFood, category)
	})

	t.Run("BlankDescriptionSkipsLookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := categorizer.NewMockRepository(ctrl)
		svc := categorizer.NewService(repo)

		category, err := svc.Suggest(context.Background(), userID, "   ")
		require.NoError(t, err)
		assert.Empty(t, category)
	})
}

func TestService_Learn(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := categorizer.NewMockRepository(ctrl)
		svc := categorizer.NewService(repo)

		repo.EXPECT().
			CreateRule(gomock.Any(), userID, "SWIGGY", transaction.CategoryFood).
			Return(nil)

		err := svc.Learn(context.Background(), userID, "  SWIGGY  ", transaction.CategoryFood)
		require.NoError(t, err)
	})

	t.Run("BlankPattern", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := categorizer.NewMockRepository(ctrl)
		svc := categorizer.NewService(repo)

		err := svc.Learn(context.Background(), userID, "   ", transaction.CategoryFood)
		assert.ErrorIs(t, err, categorizer.ErrInvalidInput)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := categorizer.NewMockRepository(ctrl)
		svc := categorizer.NewService(repo)

		err := svc.Learn(context.Background(), userID, "SWIGGY", "snacks")
		assert.ErrorIs(t, err, categorizer.ErrInvalidInput)
	})
}
