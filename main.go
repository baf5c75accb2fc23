package main

import "github.com/VinniZP/lingx/cmd"

func main() {
	cmd.Execute()
}
