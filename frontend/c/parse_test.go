package c

import (
	"context"
	"testing"

	"github.com/jskeetcode/ircfg/translate"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleCallProducesTranslatableUAST(t *testing.T) {
	src := []byte(`
void foo() {}
void main() {
    foo();
}
`)
	root, err := Parse(context.Background(), src)
	require.NoError(t, err)
	require.NotNil(t, root)
	require.Len(t, root.Children, 2)
	require.Equal(t, "foo", root.Children[0].Name)
	require.Equal(t, "main", root.Children[1].Name)

	// The lowered stream must be non-empty and translatable without panicking.
	stream := translate.New().Translate(root)
	require.NotEmpty(t, stream)
}

func TestParseWhileBreak(t *testing.T) {
	src := []byte(`
void main() {
    while (1) {
        foo();
        break;
    }
}
`)
	root, err := Parse(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	main := root.Children[0]
	require.NotNil(t, main.Body)

	stream := translate.New().Translate(root)
	require.NotEmpty(t, stream)
}
