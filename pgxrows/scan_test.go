package pgxrows

import (
	"context"
	"testing"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type account struct {
	Id     int     `db:"account_id"`
	Name   string  `db:"account_name"`
	Email  string  `db:"account_email"`
	Rating float64 `db:"account_rating"`
}

func setupPostgresMock(t *testing.T, mockQuery string, rows [][]interface{}, columns []string) pgxmock.PgxConnIface {
	mock, err := pgxmock.NewConn()
	if err != nil {
		t.Fatalf("unexpected error opening mock DB: %s", err)
	}
	mock.ExpectQuery(mockQuery).WillReturnRows(mock.NewRows(columns).AddRows(rows...))
	return mock
}

var accountColumns = []string{"account_id", "account_name", "account_email", "account_rating"}

func TestScanOne(t *testing.T) {
	const query = "SELECT * FROM accounts"

	t.Run("maps a single row onto a struct", func(t *testing.T) {
		mock := setupPostgresMock(t, "^SELECT (.+) FROM accounts$",
			[][]interface{}{{1, "John", "john@example.com", 4.5}}, accountColumns)
		rows, err := mock.Query(context.Background(), query)
		require.NoError(t, err)

		var result account
		err = ScanOne(rows, &result)

		assert.NoError(t, err)
		assert.Equal(t, account{Id: 1, Name: "John", Email: "john@example.com", Rating: 4.5}, result)
	})

	t.Run("returns ErrNoRows for an empty result set", func(t *testing.T) {
		mock := setupPostgresMock(t, "^SELECT (.+) FROM accounts$", [][]interface{}{}, accountColumns)
		rows, err := mock.Query(context.Background(), query)
		require.NoError(t, err)

		var result account
		err = ScanOne(rows, &result)

		assert.ErrorIs(t, err, ErrNoRows)
		assert.Empty(t, result)
	})

	t.Run("rejects a result set with more than one row", func(t *testing.T) {
		mock := setupPostgresMock(t, "^SELECT (.+) FROM accounts$",
			[][]interface{}{
				{1, "John", "john@example.com", 4.5},
				{2, "Jane", "jane@example.com", 4.9},
			}, accountColumns)
		rows, err := mock.Query(context.Background(), query)
		require.NoError(t, err)

		var result account
		err = ScanOne(rows, &result)

		assert.ErrorContains(t, err, "too many rows")
	})

	t.Run("leaves NULL columns at their zero value", func(t *testing.T) {
		mock := setupPostgresMock(t, "^SELECT (.+) FROM accounts$",
			[][]interface{}{{1, "John", nil, nil}}, accountColumns)
		rows, err := mock.Query(context.Background(), query)
		require.NoError(t, err)

		var result account
		err = ScanOne(rows, &result)

		assert.NoError(t, err)
		assert.Equal(t, account{Id: 1, Name: "John"}, result)
	})

	t.Run("rejects a non-pointer destination", func(t *testing.T) {
		mock := setupPostgresMock(t, "^SELECT (.+) FROM accounts$",
			[][]interface{}{{1, "John", "john@example.com", 4.5}}, accountColumns)
		rows, err := mock.Query(context.Background(), query)
		require.NoError(t, err)

		err = ScanOne(rows, account{})
		assert.Error(t, err)
	})
}

func TestScanAll(t *testing.T) {
	const query = "SELECT * FROM accounts"

	t.Run("maps every row onto a slice", func(t *testing.T) {
		mock := setupPostgresMock(t, "^SELECT (.+) FROM accounts$",
			[][]interface{}{
				{1, "John", "john@example.com", 4.5},
				{2, "Jane", "jane@example.com", 4.9},
			}, accountColumns)
		rows, err := mock.Query(context.Background(), query)
		require.NoError(t, err)

		var result []account
		err = ScanAll(rows, &result)

		assert.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, account{Id: 1, Name: "John", Email: "john@example.com", Rating: 4.5}, result[0])
		assert.Equal(t, account{Id: 2, Name: "Jane", Email: "jane@example.com", Rating: 4.9}, result[1])
	})

	t.Run("returns an empty slice for an empty result set", func(t *testing.T) {
		mock := setupPostgresMock(t, "^SELECT (.+) FROM accounts$", [][]interface{}{}, accountColumns)
		rows, err := mock.Query(context.Background(), query)
		require.NoError(t, err)

		var result []account
		err = ScanAll(rows, &result)

		assert.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("rejects a destination that is not a pointer to a slice of structs", func(t *testing.T) {
		mock := setupPostgresMock(t, "^SELECT (.+) FROM accounts$", [][]interface{}{}, accountColumns)
		rows, err := mock.Query(context.Background(), query)
		require.NoError(t, err)

		var result []int
		err = ScanAll(rows, &result)
		assert.Error(t, err)
	})
}
