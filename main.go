package main

import "github.com/theirongolddev/tokentrack/cmd"

func main() {
	cmd.Execute()
}
