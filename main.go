package main

import "github.com/fretlab/auralis/cmd"

func main() {
	cmd.Execute()
}
