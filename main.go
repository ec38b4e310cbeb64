package main

import "github.com/neonnumbers/ms-go-auth/cmd"

func main() {
	cmd.Execute()
}
