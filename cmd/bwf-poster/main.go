// Command bwf-poster renders the BWF World Tour calendar poster and delivers it to Telegram.
package main

import "github.com/pfrederiksen/bwf-poster/internal/cli"

func main() {
	cli.Execute()
}
