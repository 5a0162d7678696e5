package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValidate(t *testing.T) {
	valid := GeneralPolicy(15*time.Minute, 100, 2)
	require.NoError(t, valid.Validate())

	t.Run("rejects non-positive window", func(t *testing.T) {
		p := valid
		p.Window = 0
		assert.Error(t, p.Validate())
	})

	t.Run("rejects non-positive ceiling", func(t *testing.T) {
		p := valid
		p.Limit = 0
		assert.Error(t, p.Validate())
	})

	t.Run("rejects multiplier below one", func(t *testing.T) {
		p := valid
		p.AuthMultiplier = 0
		assert.Error(t, p.Validate())
	})

	t.Run("rejects missing code", func(t *testing.T) {
		p := valid
		p.Code = ""
		assert.Error(t, p.Validate())
	})

	t.Run("rejects missing name", func(t *testing.T) {
		p := valid
		p.Name = ""
		assert.Error(t, p.Validate())
	})
}

func TestPolicyCeiling(t *testing.T) {
	p := GeneralPolicy(15*time.Minute, 100, 3)

	assert.Equal(t, int64(100), p.ceiling(false))
	assert.Equal(t, int64(300), p.ceiling(true))

	// Authenticated ceiling is never below the anonymous one
	assert.GreaterOrEqual(t, p.ceiling(true), p.ceiling(false))
}

func TestAuthPolicyAppliesEqually(t *testing.T) {
	p := AuthPolicy(15*time.Minute, 5)

	assert.Equal(t, int64(5), p.ceiling(false))
	assert.Equal(t, int64(5), p.ceiling(true))
	assert.Equal(t, CodeAuthRateLimit, p.Code)
	assert.Contains(t, p.message(false), "too many authentication attempts")
	assert.Equal(t, p.message(false), p.message(true))
}

func TestPolicyMessagesByTrustLevel(t *testing.T) {
	p := ReadPolicy(time.Minute, 10, 2)

	assert.NotEqual(t, p.message(false), p.message(true))
	// Anonymous callers are nudged toward authenticating
	assert.Contains(t, p.message(false), "Sign in")
}

func TestDefaultTierOrdering(t *testing.T) {
	general := GeneralPolicy(15*time.Minute, 100, 2)
	auth := AuthPolicy(15*time.Minute, 5)
	read := ReadPolicy(15*time.Minute, 300, 2)
	write := WritePolicy(15*time.Minute, 60, 2)

	// Relative ordering is the contract, not the exact numbers
	assert.Less(t, auth.ceiling(false), general.ceiling(false))
	assert.LessOrEqual(t, write.ceiling(false), read.ceiling(false))
}
