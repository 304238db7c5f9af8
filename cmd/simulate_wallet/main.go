// One-off: answer a Phantom connect link the way the wallet app would, with a fresh wallet.
// Output: the callback URL to open (stdout) and the wallet address (stderr).
// Usage: go run ./cmd/simulate_wallet [-reject] '<connect URL>'
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/AlexZinkM/phantom-waitlist/solana"
)

func main() {
	reject := flag.Bool("reject", false, "answer with a user rejection instead of a public key")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: simulate_wallet [-reject] <connect-url>")
		os.Exit(2)
	}

	w, err := solana.NewSimulatedWallet()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var callback string
	if *reject {
		callback, err = w.Reject(flag.Arg(0))
	} else {
		callback, err = w.Approve(flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "wallet:", w.Address())
	fmt.Println(callback)
}
