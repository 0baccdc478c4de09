package utils

import (
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenUuidFromStrings(t *testing.T) {
	a := GenUuidFromStrings("alpha", "beta")
	b := GenUuidFromStrings("beta", "alpha")
	c := GenUuidFromStrings("alpha", "gamma")

	assert.Equal(t, a, b, "ordering must not matter")
	assert.NotEqual(t, a, c)

	parsed, err := uuid.FromString(a)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, parsed)
}

func TestGenUuidFromStringsEmpty(t *testing.T) {
	a := GenUuidFromStrings()
	b := GenUuidFromStrings()
	assert.Equal(t, a, b)
}
