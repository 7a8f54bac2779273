package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "time":
		return cmdTime(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "make-cast":
		return cmdMakeCast(args[1:], out, errOut)
	case "remove-cast":
		return cmdRemoveCast(args[1:], out, errOut)
	case "react":
		return cmdReact(args[1:], out, errOut)
	case "follow":
		return cmdFollow(args[1:], out, errOut)
	case "set-user-data":
		return cmdSetUserData(args[1:], out, errOut)
	case "validate":
		return cmdValidate(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "submit":
		return cmdSubmit(args[1:], out, errOut)
	case "info":
		return cmdInfo(args[1:], out, errOut)
	case "archive":
		return cmdArchive(args[1:], out, errOut)
	case "backfill":
		return cmdBackfill(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "hubctl: build, sign, check and submit Farcaster hub messages")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  hubctl time now | to <unix-ms> | from <farcaster-seconds>")
	fmt.Fprintln(w, "  hubctl key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  hubctl key derive --from <name> --app <app> [--force]")
	fmt.Fprintln(w, "  hubctl key list")
	fmt.Fprintln(w, "  hubctl key export --name <name> [--app <app>]")
	fmt.Fprintln(w, "  hubctl make-cast --text <text> [--parent-url <url>] [--embed <url> ...] [signer flags] [output flags]")
	fmt.Fprintln(w, "  hubctl remove-cast --hash <hex> [signer flags] [output flags]")
	fmt.Fprintln(w, "  hubctl react --type like|recast (--target-url <url> | --target-fid <fid> --target-hash <hex>) [--remove] [signer flags] [output flags]")
	fmt.Fprintln(w, "  hubctl follow --target-fid <fid> [--remove] [signer flags] [output flags]")
	fmt.Fprintln(w, "  hubctl set-user-data --type pfp|display|bio|url|username --value <v> [signer flags] [output flags]")
	fmt.Fprintln(w, "  hubctl validate <message-hex>")
	fmt.Fprintln(w, "  hubctl verify <message-hex>")
	fmt.Fprintln(w, "  hubctl submit [--hub <host:port>] <message-hex>")
	fmt.Fprintln(w, "  hubctl info [--hub <host:port>] [--db-stats]")
	fmt.Fprintln(w, "  hubctl archive get --archive-dir <dir> <cid>")
	fmt.Fprintln(w, "  hubctl archive put --archive-dir <dir> <message-hex>")
	fmt.Fprintln(w, "  hubctl backfill --texts <file> [--workers <n>] [signer flags] [output flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Signer flags: --fid <fid> --network mainnet|testnet|devnet (--seed-hex <64hex> | --key-file <path> | --signer <name> [--app <app>]) [--timestamp <farcaster-seconds>]")
	fmt.Fprintln(w, "Output flags: [--submit] [--hub <host:port>] [--tls] [--archive-dir <dir>]")
	fmt.Fprintln(w, "Every command accepts --config <file.yaml> (or HUBCTL_CONFIG) and --log-level <level>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - signed messages are printed to stdout as hex of their protobuf encoding")
	fmt.Fprintln(w, "  - logs go to stderr")
	fmt.Fprintln(w, "  - keys are stored under ~/.hubctl/keys/<name> (0600 seed files)")
}
