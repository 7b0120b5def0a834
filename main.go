package main

import "github.com/fakeyudi/studious/cmd"

func main() {
	cmd.Execute()
}
