// tfxmock runs the simulated build and work tracking service.
package main

import "github.com/getmockd/tfxmock/pkg/cli"

func main() {
	cli.Execute()
}
