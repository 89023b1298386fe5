package main

import "github.com/alanli-ML/ai-rts-sub008/internal/adapters/cli"

func main() {
	cli.Execute()
}
