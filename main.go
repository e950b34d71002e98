package main

import "github.com/chriserin/smartui/cmd"

func main() {
	cmd.Execute()
}
