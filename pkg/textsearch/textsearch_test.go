package textsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "", Normalize("   \t "))
	assert.Equal(t, "matkap uç seti", Normalize("  matkap   uç\tseti "))

	decomposed := "s\u0327" // s + cedilla combinante
	assert.Equal(t, "\u015f", Normalize(decomposed))

	long := strings.Repeat("a", 250)
	assert.Len(t, []rune(Normalize(long)), maxTermLen)
}

func TestLikePattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, LikePattern("50%_off"))
	assert.Equal(t, `%a\\b%`, LikePattern(`a\b`))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("Matkap Seti", "matkap"))
	assert.True(t, Contains("anything", ""))
	assert.False(t, Contains("Vida", "somun"))
}
