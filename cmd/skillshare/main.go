package main

import "github.com/skillshare/cli/internal/cmd"

func main() {
	cmd.Execute()
}
