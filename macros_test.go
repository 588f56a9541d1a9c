package vcbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopeExpand(t *testing.T) {
	e := newTestEnv(t)
	e.run.host.overlay["TOOLCHAIN"] = "/opt/arm"
	e.run.host.overlay["ProjectName"] = "shadowed"

	run, err := testConfig().prepare(e.run)
	require.NoError(t, err)

	src := e.path("src/main.c")
	s := newScope(run).withInput(newFileVars(src, run.projectDir()))

	for in, want := range map[string]string{
		"$(InputName)":                  "main",
		"$(InputExt)":                   ".c",
		"$(InputFileName)":              "main.c",
		"$(InputPath)":                  src,
		"$(InputDir)":                   e.path("src") + string(os.PathSeparator),
		"$(ProjectName)":                "hello",
		"$(ProjectFileName)":            "hello.proj",
		"$(ConfigurationName)":          "Debug",
		"$(PlatformName)":               "ARM",
		"$(IntDir)":                     "obj",
		"$(OutDir)":                     "bin",
		"$(TOOLCHAIN)/bin/gcc":          "/opt/arm/bin/gcc",
		"no macros":                     "no macros",
		"$(IntDir)/$(InputName).o":      "obj/main.o",
		"$(OutputDirectory)x":           e.path("bin") + string(os.PathSeparator) + "x",
		"$(IntermediateDirectory)":      e.path("obj") + string(os.PathSeparator),
	} {
		got, err := s.expand(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestScopeExpandUndefined(t *testing.T) {
	e := newTestEnv(t)
	s := newScope(e.run)

	_, err := s.expand("cc $(NoSuchMacro)")
	require.Error(t, err)

	// Input macros only exist while a file is active.
	_, err = s.expand("$(InputName)")
	require.Error(t, err)

	// Configuration macros only exist after prepare.
	_, err = s.expand("$(OutDir)")
	require.Error(t, err)
}

func TestBatchListMacro(t *testing.T) {
	e := newTestEnv(t)
	run, err := testConfig().prepare(e.run)
	require.NoError(t, err)

	b := new(batchList)
	s := newScope(run).withBatch(b)
	got, err := s.expand("@$(BatchList)")
	require.NoError(t, err)

	want := filepath.Join(e.path("obj"), batchListName)
	require.Equal(t, "@"+want, got)
	require.True(t, b.used)
	require.False(t, b.full)
	require.DirExists(t, e.path("obj"))

	_, err = s.expand("$(BatchListFull)")
	require.NoError(t, err)
	require.True(t, b.full)
}

func TestArgTableExpand(t *testing.T) {
	args := argTable{
		"Inputs":     "a.c",
		"$Level":     "2",
		"AllOptions": " -O2",
	}
	for in, want := range map[string]string{
		"cc[AllOptions] [Inputs]": "cc -O2 a.c",
		"level=[$Level]":          "level=2",
		"keep [Unknown] as is":    "keep [Unknown] as is",
		"no args":                 "no args",
	} {
		require.Equal(t, want, args.expand(in), in)
	}
}

func TestExpandArgsThenMacros(t *testing.T) {
	e := newTestEnv(t)
	e.run.host.overlay["CC"] = "arm-gcc"
	args := argTable{"Compiler": "$(CC)"}

	got, err := expandArgs(newScope(e.run), args, "[Compiler] -c")
	require.NoError(t, err)
	require.Equal(t, "arm-gcc -c", got)
}

func TestCompileArgs(t *testing.T) {
	r := mustRule(t, &Rule{
		Name:           "as",
		FileExtensions: "*.s",
		Properties: []Property{
			&StringProperty{
				Name: "Includes", Switch: "-I[value]",
				Delimited: true, Delimiters: ";",
			},
			&BooleanProperty{Name: "Warnings", Switch: "-W"},
			&EnumProperty{
				Name:   "Arch",
				Values: map[string]string{"0": "", "1": "-mthumb"},
			},
		},
	})

	args, err := r.compileArgs(map[string]string{
		"Includes": "inc;lib/inc",
		"Arch":     "1",
	}, "-v")
	require.NoError(t, err)

	require.Equal(t, " -Iinc -Ilib/inc", args["Includes"])
	require.Equal(t, "inc;lib/inc", args["$Includes"])
	require.Equal(t, "", args["Warnings"])
	require.Equal(t, "false", args["$Warnings"])
	require.Equal(t, " -mthumb", args["Arch"])
	require.Equal(t, " -Iinc -Ilib/inc -mthumb", args["AllOptions"])
	require.Equal(t, "-v", args["AdditionalOptions"])

	_, err = r.compileArgs(map[string]string{"Arch": "9"}, "")
	require.Error(t, err)
}
