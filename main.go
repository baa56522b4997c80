package main

import "hotelier/cmd"

func main() {
	cmd.Execute()
}
