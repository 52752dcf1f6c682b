package sphere_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivmel/reflecta/internal/errors"
	"github.com/ivmel/reflecta/internal/sphere"
)

func TestParse_KnownSpheres(t *testing.T) {
	for _, s := range sphere.All {
		parsed, err := sphere.Parse(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		assert.True(t, parsed.IsValid())
	}
}

func TestParse_NormalizesInput(t *testing.T) {
	parsed, err := sphere.Parse("  Career ")
	require.NoError(t, err)
	assert.Equal(t, sphere.Career, parsed)
}

func TestParse_UnknownSphere(t *testing.T) {
	_, err := sphere.Parse("crypto")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestParse_Empty(t *testing.T) {
	_, err := sphere.Parse("")
	assert.Error(t, err)
}

func TestNewFocusSet_SingleSphere(t *testing.T) {
	set, err := sphere.NewFocusSet([]string{"career"})
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, sphere.Career, set.Primary())
	assert.Equal(t, []string{"career"}, set.Keys())
}

func TestNewFocusSet_TwoSpheres_OrderPreserved(t *testing.T) {
	set, err := sphere.NewFocusSet([]string{"career", "money"})
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, sphere.Career, set.At(0))
	assert.Equal(t, sphere.Money, set.At(1))
}

func TestNewFocusSet_Empty(t *testing.T) {
	// Degraded but tolerated: no sphere filter is applied downstream.
	set, err := sphere.NewFocusSet(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, sphere.Sphere(""), set.Primary())
}

func TestNewFocusSet_TooMany(t *testing.T) {
	_, err := sphere.NewFocusSet([]string{"career", "money", "health"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestNewFocusSet_Duplicate(t *testing.T) {
	_, err := sphere.NewFocusSet([]string{"career", "career"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestNewFocusSet_UnknownKey(t *testing.T) {
	_, err := sphere.NewFocusSet([]string{"career", "fame"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestFocusSet_AtOutOfRange(t *testing.T) {
	set, err := sphere.NewFocusSet([]string{"health"})
	require.NoError(t, err)
	assert.Equal(t, sphere.Sphere(""), set.At(1))
	assert.Equal(t, sphere.Sphere(""), set.At(-1))
}
