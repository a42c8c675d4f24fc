package export_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestegg-dev/nestegg/internal/export"
	"github.com/nestegg-dev/nestegg/internal/transaction"
)

// mockRepo satisfies transaction.Repository with only listing wired up.
type mockRepo struct {
	listTransactionsFunc func(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, int, error)
}

func (m *mockRepo) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return nil
}

func (m *mockRepo) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	return nil, nil
}

func (m *mockRepo) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	return nil
}

func (m *mockRepo) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error { return nil }

func (m *mockRepo) ListTransactions(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
	if m.listTransactionsFunc != nil {
		return m.listTransactionsFunc(ctx, userID, filter)
	}

	return nil, 0, nil
}

func (m *mockRepo) ListWindow(ctx context.Context, userID uuid.UUID, from time.Time) ([]*transaction.Transaction, error) {
	return nil, nil
}

func (m *mockRepo) BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (transaction.ImportTx, error) {
	return nil, nil
}

func TestService_WriteCSV(t *testing.T) {
	userID := uuid.New()

	t.Run("FormatsRows", func(t *testing.T) {
		txs := []*transaction.Transaction{
			{
				Type:        transaction.TypeExpense,
				Category:    transaction.CategoryFood,
				Amount:      decimal.NewFromFloat(450.5),
				Description: "Lunch, with friends",
				Date:        time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			},
			{
				Type:        transaction.TypeIncome,
				Category:    transaction.CategorySalary,
				Amount:      decimal.NewFromInt(60000),
				Description: "June salary",
				Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			},
		}

		repo := &mockRepo{
			listTransactionsFunc: func(_ context.Context, gotUser uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
				assert.Equal(t, userID, gotUser)
				return txs, len(txs), nil
			},
		}

		svc := export.NewService(transaction.NewService(repo))

		var buf strings.Builder

		n, err := svc.WriteCSV(context.Background(), userID, export.Range{}, &buf)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "date,type,category,description,amount", lines[0])
		assert.Equal(t, `2025-06-02,expense,food,"Lunch, with friends",450.50`, lines[1])
		assert.Equal(t, "2025-06-01,income,salary,June salary,60000.00", lines[2])
	})

	t.Run("PagesThroughLargeHistories", func(t *testing.T) {
		all := make([]*transaction.Transaction, 120)
		for i := range all {
			all[i] = &transaction.Transaction{
				Type:        transaction.TypeExpense,
				Category:    transaction.CategoryOther,
				Amount:      decimal.NewFromInt(int64(i + 1)),
				Description: "row",
				Date:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			}
		}

		var offsets []int

		repo := &mockRepo{
			listTransactionsFunc: func(_ context.Context, _ uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
				offsets = append(offsets, filter.Offset)

				end := filter.Offset + filter.Limit
				if end > len(all) {
					end = len(all)
				}

				return all[filter.Offset:end], len(all), nil
			},
		}

		svc := export.NewService(transaction.NewService(repo))

		var buf strings.Builder

		n, err := svc.WriteCSV(context.Background(), userID, export.Range{}, &buf)
		require.NoError(t, err)
		assert.Equal(t, 120, n)
		assert.Equal(t, []int{0, 100}, offsets)
		assert.Equal(t, 121, strings.Count(buf.String(), "\n"))
	})

	t.Run("PassesRange", func(t *testing.T) {
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

		repo := &mockRepo{
			listTransactionsFunc: func(_ context.Context, _ uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, int, error) {
				require.NotNil(t, filter.StartDate)
				require.NotNil(t, filter.EndDate)
				assert.Equal(t, start, *filter.StartDate)
				assert.Equal(t, end, *filter.EndDate)
				return nil, 0, nil
			},
		}

		svc := export.NewService(transaction.NewService(repo))

		var buf strings.Builder

		n, err := svc.WriteCSV(context.Background(), userID, export.Range{StartDate: &start, EndDate: &end}, &buf)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
		assert.Equal(t, "date,type,category,description,amount\n", buf.String())
	})

	t.Run("ListError", func(t *testing.T) {
		repo := &mockRepo{
			listTransactionsFunc: func(_ context.Context, _ uuid.UUID, _ transaction.ListFilter) ([]*transaction.Transaction, int, error) {
				return nil, 0, errors.New("db down")
			},
		}

		svc := export.NewService(transaction.NewService(repo))

		var buf strings.Builder

		_, err := svc.WriteCSV(context.Background(), userID, export.Range{}, &buf)
		assert.Error(t, err)
	})
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "transactions_20250602.csv", export.Filename(now))
}
