package main

import "greenspring/cmd"

func main() {
	cmd.Execute()
}
