package main

import "github.com/kirjasto/ils/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
