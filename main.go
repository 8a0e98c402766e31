// main.go
package main

import "car-showcase/cli"

func main() {
	cli.Execute()
}
