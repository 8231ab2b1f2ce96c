// Command restocks is a CLI for the Restocks marketplace client.
package main

import "github.com/restocksgo/restocks/cmd/restocks/cmd"

func main() {
	cmd.Execute()
}
