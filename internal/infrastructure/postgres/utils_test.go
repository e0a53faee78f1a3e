package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	// También debe detectarse envuelto, como lo devuelven los repos.
	assert.True(t, isUniqueViolation(fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"})))

	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "40001"}))
	assert.False(t, isUniqueViolation(errors.New("cualquier otro error")))
	assert.False(t, isUniqueViolation(nil))
}

func TestIsSerializationFailure(t *testing.T) {
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40001"}), "serialization_failure")
	assert.True(t, isSerializationFailure(&pgconn.PgError{Code: "40P01"}), "deadlock_detected")
	assert.True(t, isSerializationFailure(fmt.Errorf("conditional decrement stock: %w", &pgconn.PgError{Code: "40001"})))

	assert.False(t, isSerializationFailure(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isSerializationFailure(errors.New("cualquier otro error")))
	assert.False(t, isSerializationFailure(nil))
}
