package ids_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolend-api/pkg/ids"
)

func TestNewULID_OrdenLexicograficoMonotonico(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	prev := ids.NewULID(now)
	for i := 0; i < 100; i++ {
		next := ids.NewULID(now)
		assert.Less(t, prev, next)
		prev = next
	}
	assert.Len(t, prev, 26)
}

func TestTime_RecuperaInstante(t *testing.T) {
	now := time.Date(2025, 4, 1, 8, 30, 15, 123*int(time.Millisecond), time.UTC)
	got, err := ids.Time(ids.NewULID(now))
	require.NoError(t, err)
	assert.True(t, now.Equal(got.UTC()))

	_, err = ids.Time("no-es-ulid")
	assert.Error(t, err)
}
