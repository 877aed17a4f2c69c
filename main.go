package main

import "github.com/km-arc/go-container/cmd"

func main() {
	cmd.Main()
}
