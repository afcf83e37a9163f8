package extrawork

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		price := 15.0
		rows := sqlmock.NewRows([]string{"id", "name", "price", "description", "is_active", "created_at", "updated_at"}).
			AddRow(1, "Pet hair removal", price, nil, true, time.Now(), time.Now()).
			AddRow(2, "Odour treatment", nil, nil, true, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT id, name, price, .* FROM extra_works WHERE is_active = TRUE ORDER BY name`).
			WillReturnRows(rows)

		works, err := repo.GetAll(ctx)
		assert.NoError(t, err)
		assert.Len(t, works, 2)
		assert.Equal(t, 15.0, *works[0].Price)
		assert.Nil(t, works[1].Price)
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM extra_works`).
			WillReturnError(errors.New("db error"))

		_, err := repo.GetAll(ctx)
		assert.Error(t, err)
	})
}

func TestRepository_GetByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		works, err := repo.GetByIDs(ctx, nil)
		assert.NoError(t, err)
		assert.Nil(t, works)
	})

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "price", "description", "is_active", "created_at", "updated_at"}).
			AddRow(1, "Pet hair removal", 15.0, nil, true, time.Now(), time.Now())

		mock.ExpectQuery(`SELECT .* FROM extra_works WHERE id IN \(\$1\)`).
			WithArgs(uint(1)).
			WillReturnRows(rows)

		works, err := repo.GetByIDs(ctx, []uint{1})
		assert.NoError(t, err)
		assert.Len(t, works, 1)
	})
}
