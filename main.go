package main

import "github.com/structgen/buildergen/cmd"

func main() {
	cmd.Execute()
}
