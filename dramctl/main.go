// Dramctl drives the DRAM power-state sequences against an emulated
// controller.
package main

import "github.com/sarchlab/dramctl/dramctl/cmd"

func main() {
	cmd.Execute()
}
