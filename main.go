package main

import "backup-check/cmd"

func main() {
	cmd.Execute()
}
