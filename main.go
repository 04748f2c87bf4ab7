package main

import "github.com/junaidrashid-git/yoruwear-api/cmd"

func main() {
	cmd.Execute()
}
