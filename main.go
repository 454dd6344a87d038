package main

import "github.com/kendall-kelly/restaurant-assistant-api/cmd"

func main() {
	cmd.Execute()
}
