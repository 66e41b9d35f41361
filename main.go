package main

import "github.com/Bitlatte/suspect/cmd"

func main() {
	cmd.Execute()
}
