package main

import "somlib/kanon/cmd"

func main() {
	cmd.Execute()
}
