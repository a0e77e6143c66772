package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNameComposesCharacters(t *testing.T) {
	decomposed := "Основы \u0438\u0306"
	composed := "Основы \u0439"

	assert.Equal(t, composed, NormalizeName("  "+decomposed+" "))
}

func TestMakeSlugTransliterates(t *testing.T) {
	s := MakeSlug("Основы навигации")
	assert.NotEmpty(t, s)
	assert.NotContains(t, s, " ")
	assert.Regexp(t, `^[a-z0-9-]+$`, s)
}
