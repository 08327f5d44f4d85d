package main

import "github.com/gaurav-prasanna/catalogpipe/cmd"

func main() {
	cmd.Execute()
}
