package main

import "github.com/rotblauer/wayward/cmd"

func main() {
	cmd.Execute()
}
