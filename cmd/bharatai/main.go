package main

import "github.com/Hike-12/BharatAI/internal/cli"

func main() {
	cli.Execute()
}
