package apperr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundMessageNamesResource(t *testing.T) {
	err := NotFound("user", "42")
	assert.Equal(t, KindNotFound, err.Kind)
	assert.Contains(t, err.Message, "user")
	assert.Contains(t, err.Message, "42")
}

func TestKindAndCodeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("promote: %w", BusinessRule(CodeMaxRankReached, "already at maximum rank"))

	assert.True(t, IsKind(wrapped, KindBusinessRule))
	assert.True(t, IsCode(wrapped, CodeMaxRankReached))
	assert.False(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsCode(fmt.Errorf("plain"), CodeMaxRankReached))
}
