// The relay command loads a circuit document, runs the propagation engine,
// and reports the settled node values.
package main

import "github.com/gridlab/relay/cmd/relay/cmd"

func main() {
	cmd.Execute()
}
