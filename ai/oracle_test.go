package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreAcceptsBareNumbers(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"0.75", 0.75},
		{"0", 0},
		{"1", 1},
		{" 0.5 \n", 0.5},
		{"0.333333", 0.333333},
	}
	for _, tc := range cases {
		got, err := ParseScore(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseScoreRejectsMalformedReplies(t *testing.T) {
	cases := []string{
		"",
		"score: 0.8",
		"0.8 (fairly confident)",
		"very likely",
		"0,5",
		"NaN",
	}
	for _, in := range cases {
		_, err := ParseScore(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseScoreRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{"1.2", "-0.1", "7"} {
		_, err := ParseScore(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"propositions": ["p"]}`, extractJSON(`{"propositions": ["p"]}`))
	assert.Equal(t, `{"propositions": ["p"]}`,
		extractJSON("Here you go:\n{\"propositions\": [\"p\"]}\nHope that helps."))
	assert.Equal(t, "", extractJSON("no json here"))
	assert.Equal(t, "", extractJSON("}{"))
}
