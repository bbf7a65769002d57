package main

import "github.com/vitalya-dev/tickethub/cmd"

func main() {
	cmd.Execute()
}
