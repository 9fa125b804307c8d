package main

import "github.com/erlandv/writenex/cmd"

func main() {
	cmd.Execute()
}
