package main

import "gyrinx-content/cmd"

func main() {
	cmd.Execute()
}
