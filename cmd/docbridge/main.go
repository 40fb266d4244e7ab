package main

import "docbridge/cmd/docbridge/cmd"

func main() {
	cmd.Execute()
}
