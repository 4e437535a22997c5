package main

import (
	"context"

	"worksearch/cmd/worksearch/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
