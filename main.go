package main

import "github.com/kubelab/playground/cmd"

func main() {
	cmd.Execute()
}
