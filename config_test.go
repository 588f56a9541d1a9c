package vcbuild

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestConfigPrepare(t *testing.T) {
	e := newTestEnv(t)
	c := newConfiguration("Release", "ARM")
	c.IntermediateDirectory = "$(ConfigurationName)/obj"
	c.OutputDirectory = "$(IntDir)/../$(PlatformName)"

	run, err := c.prepare(e.run)
	require.NoError(t, err)

	sep := string(os.PathSeparator)
	require.Equal(t, e.path("Release/obj")+sep, run.intDir)
	require.Equal(t, "Release/obj", run.intDirRel)
	require.Equal(t, e.path("Release/ARM")+sep, run.outDir)
	require.Equal(t, "Release/ARM", run.outDirRel)

	// The base scope is not touched, so prepare can run again.
	require.Empty(t, e.run.intDir)
	again, err := c.prepare(e.run)
	require.NoError(t, err)
	require.Equal(t, run.intDir, again.intDir)
	require.Equal(t, run.outDir, again.outDir)
}

func TestConfigPrepareError(t *testing.T) {
	e := newTestEnv(t)
	c := newConfiguration("Debug", "ARM")
	c.IntermediateDirectory = "$(NoSuchThing)"
	_, err := c.prepare(e.run)
	require.Error(t, err)
}

func TestConfigDuplicateBucket(t *testing.T) {
	c := testConfig()
	require.NoError(t, c.addTool(mustTool(t, ccRule(t), 1)))
	require.Error(t, c.addTool(mustTool(t, ldRule(t), 1)))
}

func TestConfigToolsSorted(t *testing.T) {
	c := testConfig()
	require.NoError(t, c.addTool(mustTool(t, ldRule(t), 5)))
	require.NoError(t, c.addTool(mustTool(t, ccRule(t), 2)))

	var names []string
	for _, tool := range c.Tools() {
		names = append(names, tool.Name)
	}
	require.Equal(t, []string{"cc", "ld"}, names)
}

func TestConfigBuckets(t *testing.T) {
	e := newTestEnv(t)
	writeFile(t, e.path("src/a.c"), at(0))
	writeFile(t, e.path("src/b.c"), at(0))

	c := testConfig()
	require.NoError(t, c.addTool(mustTool(t, ccRule(t), 1)))
	require.NoError(t, c.addTool(mustTool(t, ldRule(t), 2)))

	files := e.fileSet("src/a.c", "src/b.c")
	ctx := e.context(t, c, files)
	require.NoError(t, c.build(ctx))

	want := []string{
		"cc -c src/a.c -o obj/a.o",
		"cc -c src/b.c -o obj/b.o",
		`ld "obj/a.o" "obj/b.o" -o bin/hello.elf`,
	}
	if diff := cmp.Diff(want, e.rec.lines()); diff != "" {
		t.Errorf("jobs: (-want +got)\n%s", diff)
	}
	require.Contains(
		t, e.out.String(),
		"Build started: Project: hello, Configuration: Debug|ARM",
	)

	// A second build finds everything up to date.
	ctx = e.context(t, c, files)
	require.NoError(t, c.build(ctx))
	require.Len(t, e.rec.jobs, 3)
	require.Empty(t, ctx.invocations)
}

func TestConfigBucketsReversed(t *testing.T) {
	e := newTestEnv(t)
	writeFile(t, e.path("src/a.c"), at(0))

	c := testConfig()
	require.NoError(t, c.addTool(mustTool(t, ldRule(t), 1)))
	require.NoError(t, c.addTool(mustTool(t, ccRule(t), 2)))

	files := e.fileSet("src/a.c")
	ctx := e.context(t, c, files)
	require.NoError(t, c.build(ctx))

	// The link step ran before any object file was known.
	require.Equal(t, []string{"cc -c src/a.c -o obj/a.o"}, e.rec.lines())
}

func TestConfigToolError(t *testing.T) {
	e := newTestEnv(t)
	e.rec.fail = map[string]int{"cc": 2}
	writeFile(t, e.path("src/a.c"), at(0))
	writeFile(t, e.path("src/b.c"), at(0))

	c := testConfig()
	require.NoError(t, c.addTool(mustTool(t, ccRule(t), 1)))
	require.NoError(t, c.addTool(mustTool(t, ldRule(t), 2)))

	files := e.fileSet("src/a.c", "src/b.c")
	ctx := e.context(t, c, files)
	err := c.build(ctx)
	require.Error(t, err)

	var toolErr *ToolError
	require.True(t, errors.As(err, &toolErr))
	require.Equal(t, 2, toolErr.ExitCode)
	require.Len(t, e.rec.jobs, 1)
}

func TestConfigClean(t *testing.T) {
	e := newTestEnv(t)
	writeFile(t, e.path("src/a.c"), at(0))
	writeFile(t, e.path("obj/a.o"), at(10))
	writeFile(t, e.path("bin/hello.elf"), at(20))

	c := testConfig()
	require.NoError(t, c.addTool(mustTool(t, ccRule(t), 1)))
	require.NoError(t, c.addTool(mustTool(t, ldRule(t), 2)))

	files := e.fileSet("src/a.c")
	ctx := e.context(t, c, files)
	require.NoError(t, c.clean(ctx))

	require.Empty(t, e.rec.jobs)
	require.NoFileExists(t, e.path("obj/a.o"))
	require.NoFileExists(t, e.path("bin/hello.elf"))
	require.FileExists(t, e.path("src/a.c"))
	require.Contains(t, e.out.String(), "Clean started")
}
