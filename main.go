package main

import "repair-pool.com/repair-pool/cmd"

func main() {
	cmd.Execute()
}
