// Command secenv-decrypt is a standalone utility for meters that wrap
// their HAN port payload in a security-suite-0 (AES-128-GCM) envelope: it
// strips the envelope and writes the plaintext APDU to stdout. The output
// is the bare APDU without HDLC framing, so han-decode's frame scanner does
// not accept it as is.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/vegardh/han-decode/internal/secenv"
)

func main() {
	keyHex := pflag.String("key", "", "16-byte AES-128 key, hex-encoded (required)")
	systemTitleHex := pflag.String("system-title", "", "8-byte system title, hex-encoded (required)")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "secenv-decrypt - strip the AES-GCM security envelope from a HAN APDU\n\n")
		fmt.Fprintf(os.Stderr, "Usage: secenv-decrypt --key=<hex> --system-title=<hex> < ciphertext.bin > plaintext.bin\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}
	if *keyHex == "" || *systemTitleHex == "" {
		fmt.Fprintln(os.Stderr, "--key and --system-title are required")
		pflag.Usage()
		os.Exit(1)
	}

	key, err := hex.DecodeString(*keyHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --key: %v\n", err)
		os.Exit(1)
	}
	systemTitle, err := hex.DecodeString(*systemTitleHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --system-title: %v\n", err)
		os.Exit(1)
	}

	ciphertext, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading stdin: %v\n", err)
		os.Exit(1)
	}

	plaintext, err := secenv.Decrypt(key, systemTitle, ciphertext)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decrypt failed: %v\n", err)
		os.Exit(1)
	}

	os.Stdout.Write(plaintext)
}
