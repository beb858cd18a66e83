package main

import "github.com/mweigel/odrlint/cmd"

func main() {
	cmd.Execute()
}
