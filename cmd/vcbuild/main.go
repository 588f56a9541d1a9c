package main

import (
	"shanhu.io/vcbuild/vcbuildbin"
)

func main() { vcbuildbin.Main() }
