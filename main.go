package main

import "github.com/notargets/gospl/cmd"

func main() {
	cmd.Execute()
}
