package main

import "github.com/papapumpkin/manpower/cmd"

func main() {
	cmd.Execute()
}
