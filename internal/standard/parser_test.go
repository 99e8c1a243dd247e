package standard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("title without tag blocks", func(t *testing.T) {
		std, err := Parse("# Core\n  First line.  \nSecond line.\n")
		require.NoError(t, err)
		assert.Equal(t, "Core", std.Title)
		assert.Equal(t, "First line.\nSecond line.\n", std.Description)
		assert.Empty(t, std.Tags)
	})

	t.Run("one tag block defines several tags with shared text", func(t *testing.T) {
		std, err := Parse("# T\n## a b\nX\n")
		require.NoError(t, err)
		assert.Equal(t, "T", std.Title)
		assert.Equal(t, "", std.Description)
		assert.Equal(t, map[string]string{"a": "X\n", "b": "X\n"}, std.Tags)
	})

	t.Run("title is trimmed and may omit the space", func(t *testing.T) {
		std, err := Parse("#   Spaced Title   \n")
		require.NoError(t, err)
		assert.Equal(t, "Spaced Title", std.Title)

		std, err = Parse("#Tight")
		require.NoError(t, err)
		assert.Equal(t, "Tight", std.Title)
	})

	t.Run("tag list drops empty tokens", func(t *testing.T) {
		std, err := Parse("# T\n##  /j   /joking \nJoking.\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"/j": "Joking.\n", "/joking": "Joking.\n"}, std.Tags)
	})

	t.Run("tag names are trimmed of surrounding whitespace", func(t *testing.T) {
		std, err := Parse("# T\n## /a\t \t/b\nA.\n")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"/a": "A.\n", "/b": "A.\n"}, std.Tags)
		_, ok := std.Explain("/a\t")
		assert.False(t, ok)
	})

	t.Run("tag heading without names defines nothing", func(t *testing.T) {
		std, err := Parse("# T\n##\nignored\n")
		require.NoError(t, err)
		assert.Empty(t, std.Tags)
	})

	t.Run("blank body lines are kept as newlines", func(t *testing.T) {
		std, err := Parse("# T\nDesc\n\n## /a\nA\n\n")
		require.NoError(t, err)
		assert.Equal(t, "Desc\n\n", std.Description)
		assert.Equal(t, "A\n\n", std.Tags["/a"])
	})

	t.Run("later definitions of a tag overwrite earlier ones", func(t *testing.T) {
		std, err := Parse("# T\n## /a /b\nfirst\n## /a\nsecond\n")
		require.NoError(t, err)
		assert.Equal(t, "second\n", std.Tags["/a"])
		assert.Equal(t, "first\n", std.Tags["/b"])
	})

	t.Run("title block may follow tag blocks", func(t *testing.T) {
		std, err := Parse("## /a\nA\n# Late\nLate description\n")
		require.NoError(t, err)
		assert.Equal(t, "Late", std.Title)
		assert.Equal(t, "Late description\n", std.Description)
		assert.Equal(t, "A\n", std.Tags["/a"])
	})

	t.Run("windows line endings", func(t *testing.T) {
		std, err := Parse("# T\r\nDesc\r\n## /a\r\nA\r\n")
		require.NoError(t, err)
		assert.Equal(t, "T", std.Title)
		assert.Equal(t, "Desc\n", std.Description)
		assert.Equal(t, "A\n", std.Tags["/a"])
	})

	t.Run("last line without newline is still content", func(t *testing.T) {
		std, err := Parse("# T\n## /a\nA")
		require.NoError(t, err)
		assert.Equal(t, "A\n", std.Tags["/a"])
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantErr  error
		wantLine int
	}{
		{"third level heading at start", "### nope\n", ErrUnknownHeading, 1},
		{"third level heading after title", "# T\nDesc\n### nope\n", ErrUnknownHeading, 3},
		{"deeper heading inside tag block", "# T\n## /a\n#### deeper\n", ErrUnknownHeading, 3},
		{"content before any heading", "stray\n# T\n", ErrOrphanContent, 1},
		{"blank line before any heading", "\n# T\n", ErrOrphanContent, 1},
		{"second title block", "# A\n# B\n", ErrDuplicateTitle, 2},
		{"second title after tags", "# A\n## /a\nA\n# B\nB\n## /b\n", ErrDuplicateTitle, 4},
		{"no title", "## /a\nA\n", ErrNoTitle, 0},
		{"empty document", "", ErrNoTitle, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std, err := Parse(tt.input)
			require.Error(t, err)
			assert.Nil(t, std)
			assert.ErrorIs(t, err, tt.wantErr)

			var formatErr *FormatError
			require.ErrorAs(t, err, &formatErr)
			assert.Equal(t, tt.wantLine, formatErr.Line)
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	_, err := Parse("# T\n### x\n")
	require.Error(t, err)
	assert.Equal(t, "standard: line 2: no rule defined for heading level", err.Error())

	_, err = Parse("## /a\n")
	require.Error(t, err)
	assert.Equal(t, "standard: no title", err.Error())
}
