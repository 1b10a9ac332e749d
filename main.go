package main

import "bulkdozer/cmd"

func main() {
	cmd.Execute()
}
