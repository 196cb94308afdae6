package main

import "wrapped-tools/cmd"

func main() {
	cmd.Execute()
}
