package main

import "github.com/kiesman99/herobanner/cmd"

func main() {
	cmd.Execute()
}
