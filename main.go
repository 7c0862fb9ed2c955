package main

import "github.com/sjzsdu/workbench/cmd"

func main() {
	cmd.Execute()
}
