package guard_test

import (
	"errors"
	"testing"

	"escrow/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		// When
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("test object not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("entity not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// TestConstructorGuardUsageExample shows the guard embedded in a verification code value.
func TestConstructorGuardUsageExample(t *testing.T) {
	type code struct {
		digits string
		guard  guard.ConstructorGuard
	}

	errCodeNotConstructed := errors.New("code must be created via newCode")

	newCode := func(digits string) (code, error) {
		if len(digits) != 6 {
			return code{}, errors.New("code must have 6 digits")
		}
		return code{digits: digits, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		c, err := newCode("123456")

		require.NoError(t, err)
		require.NoError(t, c.guard.Validate(errCodeNotConstructed))
		assert.Equal(t, "123456", c.digits)
	})

	t.Run("zero_value_construction_validation", func(t *testing.T) {
		var c code

		err := c.guard.Validate(errCodeNotConstructed)

		assert.Equal(t, errCodeNotConstructed, err)
	})

	t.Run("constructor_validates_business_rules", func(t *testing.T) {
		_, err := newCode("12")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "6 digits")
	})
}
