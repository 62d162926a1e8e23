package main

import "padel-backend/cmd"

func main() {
	cmd.Execute()
}
