package executor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moonrockz/moonspec/internal/model"
)

func TestParseTagArg(t *testing.T) {
	tests := []struct {
		tag      string
		wantName string
		wantArg  string
	}{
		{"@skip", "skip", ""},
		{`@skip("flaky")`, "skip", "flaky"},
		{"@retry(3)", "retry", "3"},
		{"@smoke", "smoke", ""},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			name, arg := parseTagArg(tt.tag)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}

func TestSkipInfoDefaultTags(t *testing.T) {
	skip, reason := skipInfo(model.Pickle{Tags: []string{"@skip"}}, []string{"@skip", "@ignore"})
	assert.True(t, skip)
	assert.Equal(t, "skipped via @skip", reason)
}

func TestSkipInfoWithReason(t *testing.T) {
	skip, reason := skipInfo(model.Pickle{Tags: []string{`@skip("still flaky")`}}, []string{"@skip"})
	assert.True(t, skip)
	assert.Equal(t, "still flaky", reason)
}

func TestSkipInfoNoMatch(t *testing.T) {
	skip, reason := skipInfo(model.Pickle{Tags: []string{"@smoke"}}, []string{"@skip", "@ignore"})
	assert.False(t, skip)
	assert.Empty(t, reason)
}

func TestRetryCountExplicitTagOverridesDefault(t *testing.T) {
	n := retryCount(model.Pickle{Tags: []string{"@retry(3)"}}, 1)
	assert.Equal(t, 3, n)
}

func TestRetryCountFallsBackToDefault(t *testing.T) {
	n := retryCount(model.Pickle{Tags: []string{"@smoke"}}, 2)
	assert.Equal(t, 2, n)
}
