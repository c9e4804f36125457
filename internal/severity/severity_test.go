package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize_ExactMatches(t *testing.T) {
	cases := []struct {
		in       string
		wantSev  string
		wantScore int
	}{
		{"CRITICAL", Critical, 100},
		{"high", High, 80},
		{" Medium ", Medium, 50},
		{"low", Low, 20},
		{"info", Info, 5},
	}
	for _, c := range cases {
		sev, score := Canonicalize(c.in)
		assert.Equal(t, c.wantSev, sev)
		assert.Equal(t, c.wantScore, score)
	}
}

func TestCanonicalize_Aliases(t *testing.T) {
	sev, score := Canonicalize("warning")
	assert.Equal(t, Medium, sev)
	assert.Equal(t, Score[Medium], score)

	sev, _ = Canonicalize("SEVERE")
	assert.Equal(t, High, sev)
}

func TestCanonicalize_UnknownDefaultsToMedium(t *testing.T) {
	sev, score := Canonicalize("bogus")
	assert.Equal(t, Medium, sev)
	assert.Equal(t, Score[Medium], score)
}

func TestCanonicalize_EmptyDefaultsToMedium(t *testing.T) {
	sev, _ := Canonicalize("")
	assert.Equal(t, Medium, sev)
}
