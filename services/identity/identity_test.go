package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("ab"))
	assert.NoError(t, ValidateName("a regular name"))
	assert.NoError(t, ValidateName(strings.Repeat("x", 20)))

	assert.ErrorIs(t, ValidateName("a"), ErrInvalidName)
	assert.ErrorIs(t, ValidateName(""), ErrInvalidName)
	assert.ErrorIs(t, ValidateName(strings.Repeat("x", 21)), ErrInvalidName)

	// Rune count, not byte count.
	assert.NoError(t, ValidateName("ñá"))
}

func TestValidateColor(t *testing.T) {
	assert.NoError(t, ValidateColor("#a1b2c3"))
	assert.NoError(t, ValidateColor("#A1B2C3"))

	assert.ErrorIs(t, ValidateColor("a1b2c3"), ErrInvalidColor)
	assert.ErrorIs(t, ValidateColor("#a1b2"), ErrInvalidColor)
	assert.ErrorIs(t, ValidateColor("#a1b2c3d4"), ErrInvalidColor)
	assert.ErrorIs(t, ValidateColor("#gghhii"), ErrInvalidColor)
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "player-ab12", defaultName("ab12cd34"))
	assert.Equal(t, "player-x", defaultName("x"))
}
