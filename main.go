package main

import (
	_ "embed"
	"strings"

	"github.com/hveem/calwatch/cmd"
)

//go:embed .version
var embeddedVersion string

func main() {
	cmd.SetVersion(strings.TrimSpace(embeddedVersion))
	cmd.Execute()
}
