package main

import "github.com/pdxshibaa/BookClub/internal/cli"

func main() {
	cli.Execute()
}
