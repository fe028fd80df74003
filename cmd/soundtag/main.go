package main

import (
	"github.com/soundtag-tech/soundtag/cmd/soundtag/cmd"
)

func main() {
	cmd.Execute()
}
