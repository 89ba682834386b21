package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPageArgs(t *testing.T) {
	lim, off := pageArgs(0, -5)
	assert.Nil(t, lim, "sin límite se envía como NULL")
	assert.Equal(t, 0, off)

	lim, off = pageArgs(20, 40)
	assert.Equal(t, 20, lim)
	assert.Equal(t, 40, off)
}

func TestClasificaErroresPostgres(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})

	assert.True(t, isUniqueViolation(unique))
	assert.False(t, isUniqueViolation(fk))
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(errors.New("otro")))
	assert.True(t, isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
}
