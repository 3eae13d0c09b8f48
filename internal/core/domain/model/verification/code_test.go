package verification_test

import (
	"strconv"
	"testing"

	"escrow/internal/core/domain/model/verification"
	"escrow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 500 {
		c, err := verification.GenerateCode()
		require.NoError(t, err)
		require.NoError(t, c.Validate())

		n, err := strconv.Atoi(c.String())
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
		seen[c.String()] = struct{}{}
	}
	// 500 draws from 900000 values collide rarely; a constant generator would not pass.
	assert.Greater(t, len(seen), 490)
}

func TestNewCode(t *testing.T) {
	c, err := verification.NewCode("482913")
	require.NoError(t, err)
	assert.True(t, c.Matches("482913"))
	assert.False(t, c.Matches("482914"))
	assert.False(t, c.Matches("48291"))

	for _, bad := range []string{"", "12345", "1234567", "12a456", " 12345"} {
		_, err = verification.NewCode(bad)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid, bad)
	}

	var zero verification.Code
	require.ErrorIs(t, zero.Validate(), verification.ErrCodeIsNotConstructed)
}

func TestParseCheckpoint(t *testing.T) {
	c, err := verification.ParseCheckpoint("pickup")
	require.NoError(t, err)
	assert.Equal(t, verification.Pickup, c)

	c, err = verification.ParseCheckpoint("delivery")
	require.NoError(t, err)
	assert.Equal(t, "delivery", c.String())

	_, err = verification.ParseCheckpoint("dropoff")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	require.Error(t, verification.CheckpointUnknown.Validate())
}
