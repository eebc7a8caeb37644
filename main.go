package main

import "github.com/agentchat/agentchat/cmd"

func main() {
	cmd.Execute()
}
