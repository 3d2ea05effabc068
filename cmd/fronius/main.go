package main

import "github.com/loafoe/go-fronius/internal/cli"

func main() {
	cli.Execute()
}
