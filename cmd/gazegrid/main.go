package main

import "os"

func main() {
	os.Exit(cliMain(os.Args[1:], os.Stdout, os.Stderr))
}
