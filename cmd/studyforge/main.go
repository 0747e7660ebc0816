package main

import (
	"studyforge/cmd/studyforge/cmd"
)

func main() {
	cmd.Execute()
}
