package main

import "github.com/devicelab-dev/hypium-runner/pkg/cli"

func main() {
	cli.Execute()
}
