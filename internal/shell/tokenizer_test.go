package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "plain words", line: "copy a.txt b.txt", want: []string{"copy", "a.txt", "b.txt"}},
		{name: "collapsed whitespace", line: "  dir\t\tnotes  ", want: []string{"dir", "notes"}},
		{name: "quoted argument with spaces", line: `rename "my file.txt" plain.txt`, want: []string{"rename", "my file.txt", "plain.txt"}},
		{name: "quote glued to word", line: `cd "deep dir"/sub`, want: []string{"cd", "deep dir/sub"}},
		{name: "quoted empty token", line: `policy ""`, want: []string{"policy", ""}},
		{name: "empty line", line: "", want: nil},
		{name: "only spaces", line: "   ", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_UnterminatedQuote(t *testing.T) {
	_, err := Tokenize(`copy "half done`)
	assert.ErrorIs(t, err, ErrUnterminatedQuote)
}
