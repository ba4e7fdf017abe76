package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagExpressionEmptyAlwaysMatches(t *testing.T) {
	expr, err := ParseTagExpression("   ")
	require.NoError(t, err)
	assert.True(t, expr.Matches(map[string]bool{}))
}

func TestParseTagExpressionLiteral(t *testing.T) {
	expr, err := ParseTagExpression("@smoke")
	require.NoError(t, err)

	assert.True(t, expr.Matches(map[string]bool{"@smoke": true}))
	assert.False(t, expr.Matches(map[string]bool{"@slow": true}))
}

func TestParseTagExpressionNot(t *testing.T) {
	expr, err := ParseTagExpression("not @slow")
	require.NoError(t, err)

	assert.True(t, expr.Matches(map[string]bool{"@smoke": true}))
	assert.False(t, expr.Matches(map[string]bool{"@slow": true}))
}

func TestParseTagExpressionAndOr(t *testing.T) {
	expr, err := ParseTagExpression("@smoke and @fast or @critical")
	require.NoError(t, err)

	assert.True(t, expr.Matches(map[string]bool{"@smoke": true, "@fast": true}))
	assert.True(t, expr.Matches(map[string]bool{"@critical": true}))
	assert.False(t, expr.Matches(map[string]bool{"@smoke": true}))
}

func TestParseTagExpressionParens(t *testing.T) {
	expr, err := ParseTagExpression("(@a or @b) and not @c")
	require.NoError(t, err)

	assert.True(t, expr.Matches(map[string]bool{"@a": true}))
	assert.False(t, expr.Matches(map[string]bool{"@a": true, "@c": true}))
	assert.False(t, expr.Matches(map[string]bool{}))
}

func TestParseTagExpressionErrors(t *testing.T) {
	tests := []string{"@a and", "(", "@a)", "and @a", "plain"}

	for _, expr := range tests {
		_, err := ParseTagExpression(expr)
		assert.Error(t, err, expr)
	}
}
