package main

import "nextbase/cmd/dbctl/commands"

func main() {
	commands.Execute()
}
