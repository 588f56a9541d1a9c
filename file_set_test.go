package vcbuild

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileSet(t *testing.T) {
	s := newFileSet()
	require.True(t, s.add("/p/src/b.c"))
	require.True(t, s.add("/p/src/a.c"))
	require.False(t, s.add("/p/src/../src/a.c"))
	require.True(t, s.add("/p/obj/a.o"))

	require.Equal(t, 3, s.len())
	require.True(t, s.has("/p/src/./b.c"))

	abs := func(p string) string { return filepath.Clean(filepath.FromSlash(p)) }
	require.Equal(t, []string{
		abs("/p/src/b.c"), abs("/p/src/a.c"), abs("/p/obj/a.o"),
	}, s.files())
	require.Equal(t, []string{
		abs("/p/obj/a.o"), abs("/p/src/a.c"), abs("/p/src/b.c"),
	}, s.sorted())

	cc := ccRule(t)
	require.Equal(t, []string{abs("/p/src/b.c"), abs("/p/src/a.c")}, s.match(cc))
}
