package main

import "patch-tracker/cmd"

func main() {
	cmd.Execute()
}
