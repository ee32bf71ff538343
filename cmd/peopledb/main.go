// filepath: cmd/peopledb/main.go
package main

import "github.com/Astar201/DataBasePeople/internal/cli"

func main() {
	// Delegate all execution to the CLI package
	cli.Execute()
}
