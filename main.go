package main

import "github.com/murraystephenson/TravelMap/cmd"

func main() {
	cmd.Execute()
}
