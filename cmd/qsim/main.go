package main

import "github.com/theapemachine/qsim/cmd/qsim/cmd"

func main() {
	cmd.Execute()
}
