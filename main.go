package main

import (
	"github.com/mj1618/scoopick/cmd"

	// Platform backends register themselves with internal/platform.
	_ "github.com/mj1618/scoopick/internal/platform/direct"
	_ "github.com/mj1618/scoopick/internal/platform/portal"
	_ "github.com/mj1618/scoopick/internal/platform/robot"

	// Script loaders and built-in scripts register with internal/script.
	_ "github.com/mj1618/scoopick/internal/script/balatro"
	_ "github.com/mj1618/scoopick/internal/script/logging"
	_ "github.com/mj1618/scoopick/internal/script/steps"
	_ "github.com/mj1618/scoopick/internal/script/wordle"
)

func main() {
	cmd.Execute()
}
