package main

import "github.com/mvp-joe/docsnip/internal/cli"

func main() {
	cli.Execute()
}
