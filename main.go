package main

import "github.com/codencytech/smartdesk-mirror/cmd"

func main() {
	cmd.Execute()
}
