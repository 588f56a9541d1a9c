package vcbuildbin

import (
	"fmt"

	"shanhu.io/vcbuild"
)

func cmdFiles(args []string) error {
	f := &projectFlags{config: new(vcbuild.Config)}
	flags := cmdFlags.New()
	declareProjectFlags(flags, f)
	flags.ParseArgs(args)

	b, err := newBuilder(f)
	if err != nil {
		return err
	}
	for _, file := range b.Files() {
		fmt.Println(file)
	}
	return nil
}
