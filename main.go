package main

import "github.com/quantdata/marketsync/cmd"

func main() {
	cmd.Execute()
}
