package vcbuildbin

import (
	"os"

	"shanhu.io/vcbuild/ccwrap"
)

// cmdCC never returns; the wrapper exits with the compiler's status.
func cmdCC(args []string) error {
	os.Exit(ccwrap.Run(args, os.Stdout, os.Stderr))
	return nil
}
