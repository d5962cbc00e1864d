// Command farmbook manages farm records from the command line.
package main

import "github.com/mesh-intelligence/farmbook/internal/cli"

func main() {
	cli.Execute()
}
