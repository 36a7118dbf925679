package main

import "github.com/hsbacot/mercat/cmd"

func main() {
	cmd.Execute()
}
