// internal/game/storygen_test.go
package game

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUserStory(t *testing.T) {
	for i := 0; i < 50; i++ {
		as, want, reason := GenerateUserStory()
		assert.NotEmpty(t, as)
		assert.NotEmpty(t, want)
		assert.NotEmpty(t, reason)
	}
}

func TestGenerateStoryTitle(t *testing.T) {
	for i := 0; i < 50; i++ {
		title := GenerateStoryTitle()
		parts := strings.SplitN(title, " - ", 2)
		require.Len(t, parts, 2, "title %q lacks ticket number prefix", title)

		num, err := strconv.Atoi(parts[0])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, num, 3000)
		assert.Less(t, num, 6000)
		assert.NotEmpty(t, parts[1])
	}
}

func TestGenerateProjectName(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := GenerateProjectName()
		assert.Len(t, strings.Fields(name), 3)
	}
}
