package main

import "anmi/commands"

func main() {
	commands.Execute()
}
