package main

import "github.com/kiesman99/gridmark/cmd"

func main() {
	cmd.Execute()
}
