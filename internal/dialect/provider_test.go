package dialect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fluentfrontbase/internal/dialect"
)

func TestRegister(t *testing.T) {
	r := dialect.NewMapRegistry()

	db, err := dialect.Register(r)
	require.NoError(t, err)
	require.NoError(t, dialect.Boot(r))

	got, ok := r.Lookup(dialect.ID)
	require.True(t, ok)
	assert.Same(t, db, got)
	assert.Equal(t, []string{"frontbase"}, r.IDs())

	_, err = dialect.Register(r)
	assert.Error(t, err)
}
