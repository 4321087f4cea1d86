package main

import "github.com/KaramelBytes/racestats/cmd"

func main() {
	cmd.Execute()
}
