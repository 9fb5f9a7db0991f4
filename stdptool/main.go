// Command stdptool generates and inspects STDP decay tables and replays
// spike trains through the timing rules.
package main

import "github.com/sarchlab/stdp/stdptool/cmd"

func main() {
	cmd.Execute()
}
