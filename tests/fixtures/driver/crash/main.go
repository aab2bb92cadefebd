// crash exits immediately with a failure status.
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "crashing on purpose")
	os.Exit(3)
}
