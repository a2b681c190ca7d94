package main

import "golang-ethernetd/cmd"

func main() {
	cmd.Execute()
}
