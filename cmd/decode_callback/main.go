// One-off: decrypt a Phantom connect callback with the dapp secret key of its flow.
// Output: the decrypted payload JSON.
// Usage: go run ./cmd/decode_callback <dapp-secret-base58> '<callback URL>'
package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/AlexZinkM/phantom-waitlist/internal/crypto"
	"github.com/AlexZinkM/phantom-waitlist/internal/model"
	"github.com/AlexZinkM/phantom-waitlist/solana"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: decode_callback <dapp-secret-base58> <callback-url>")
		os.Exit(2)
	}

	keys, err := crypto.KeyPairFromSecret(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer crypto.Wipe(keys)

	u, err := url.Parse(os.Args[2])
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid callback URL:", err)
		os.Exit(1)
	}
	q := u.Query()

	if code := q.Get(solana.ParamErrorCode); code != "" {
		fmt.Fprintf(os.Stderr, "wallet rejected the request: %s %s\n", code, q.Get(solana.ParamErrorMessage))
		os.Exit(1)
	}

	plaintext, err := crypto.OpenEncoded(keys.SecretKey,
		q.Get(solana.ParamPhantomPublicKey), q.Get(solana.ParamNonce), q.Get(solana.ParamData))
	if err != nil {
		fmt.Fprintln(os.Stderr, "decrypt failed:", err)
		os.Exit(1)
	}

	// Connect payloads are re-indented; anything else is printed as is
	var payload model.ConnectPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil || payload.PublicKey == "" {
		fmt.Print(string(plaintext))
		return
	}
	out, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Println(string(out))
}
