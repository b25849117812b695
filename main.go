package main

import "picklr/cmd"

func main() {
	cmd.Execute()
}
