package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/hfsx/internal/hfserr"
)

func TestParseHFSPath(t *testing.T) {
	tokens, err := ParseHFSPath(":Foo:Bar:")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Foo", "Bar"}, tokens)

	tokens, err = ParseHFSPath("Vol:Foo::Baz")
	require.NoError(t, err)
	assert.Equal(t, []string{"Vol", "Foo", "Baz"}, tokens)

	_, err = ParseHFSPath(":::")
	assert.True(t, hfserr.Is(err, hfserr.PathSyntax))
}
