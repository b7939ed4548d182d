package main

import "github.com/busygit/busygit/cmd"

func main() {
	cmd.Execute()
}
