package main

import "github.com/pders01/chatlog/cmd"

func main() {
	cmd.Execute()
}
