package main

import "github.com/agentic-research/shardgraph/cmd"

func main() {
	cmd.Execute()
}
