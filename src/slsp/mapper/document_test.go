package mapper

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
)

func TestFindAllStringMatches(t *testing.T) {
	t.Run("matches on multiple lines", func(t *testing.T) {
		re := regexp.MustCompile(`def (\w+)`)
		text := "def foo\n  def bar\n"

		results := FindAllStringMatches(re, text)
		assert.Equal(t, []RegexMatchResult{
			{
				Range: protocol.Range{
					Start: protocol.Position{Line: 0, Character: 0},
					End:   protocol.Position{Line: 0, Character: 7},
				},
				TextMatch:       "def foo",
				CapturingGroups: []string{"foo"},
			},
			{
				Range: protocol.Range{
					Start: protocol.Position{Line: 1, Character: 2},
					End:   protocol.Position{Line: 1, Character: 9},
				},
				TextMatch:       "def bar",
				CapturingGroups: []string{"bar"},
			},
		}, results)
	})

	t.Run("no matches", func(t *testing.T) {
		re := regexp.MustCompile(`class (\w+)`)
		assert.Nil(t, FindAllStringMatches(re, "x = 1\n"))
	})
}
