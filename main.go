package main

import "github.com/kamusis/specq/cmd"

func main() {
	cmd.Execute()
}
