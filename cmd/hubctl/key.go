package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fiddotdev/hub-go/keys"
)

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "key subcommand required: init, derive, list, export")
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n", args[0])
		return 2
	}
}

func keystoreFlag(fs *flag.FlagSet) *string {
	return fs.String("keystore", "", "Keystore directory (default ~/.hubctl/keys)")
}

func openKeyStore(dir string, errOut io.Writer) (*keys.KeyStore, bool) {
	ks, err := keys.NewKeyStore(dir)
	if err != nil {
		fmt.Fprintf(errOut, "keystore: %v\n", err)
		return nil, false
	}
	return ks, true
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "Key name")
	seedHex := fs.String("seed-hex", "", "Import this 32-byte seed instead of generating one")
	force := fs.Bool("force", false, "Overwrite an existing key")
	dir := keystoreFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	ks, ok := openKeyStore(*dir, errOut)
	if !ok {
		return 1
	}

	var seed []byte
	var err error
	if *seedHex != "" {
		seed, err = keys.ParseSeedHex(*seedHex)
	} else {
		seed, err = keys.GenerateSeed(rand.Reader)
	}
	if err != nil {
		fmt.Fprintf(errOut, "key init: %v\n", err)
		return 2
	}
	pubHex, path, err := ks.Init(*name, seed, *force)
	if err != nil {
		fmt.Fprintf(errOut, "key init: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created root key: %s\n", *name)
	fmt.Fprintf(out, "Public key: %s\n", pubHex)
	fmt.Fprintf(out, "Stored at: %s\n", path)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)
	from := fs.String("from", "", "Root key name")
	app := fs.String("app", "", "App name")
	force := fs.Bool("force", false, "Overwrite an existing app key")
	dir := keystoreFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *from == "" || *app == "" {
		fmt.Fprintln(errOut, "missing --from or --app")
		return 2
	}
	ks, ok := openKeyStore(*dir, errOut)
	if !ok {
		return 1
	}
	pubHex, path, err := ks.Derive(*from, *app, *force)
	if err != nil {
		fmt.Fprintf(errOut, "key derive: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Derived app key: %s/%s\n", *from, *app)
	fmt.Fprintf(out, "Public key: %s\n", pubHex)
	fmt.Fprintf(out, "Stored at: %s\n", path)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dir := keystoreFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, ok := openKeyStore(*dir, errOut)
	if !ok {
		return 1
	}
	entries, err := ks.List()
	if err != nil {
		fmt.Fprintf(errOut, "key list: %v\n", err)
		return 1
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No keys found")
		return 0
	}
	for _, e := range entries {
		if len(e.Apps) == 0 {
			fmt.Fprintln(out, e.Name)
			continue
		}
		fmt.Fprintf(out, "%s (apps: %s)\n", e.Name, strings.Join(e.Apps, ", "))
	}
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	name := fs.String("name", "", "Key name")
	app := fs.String("app", "", "App key under --name")
	dir := keystoreFlag(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	ks, ok := openKeyStore(*dir, errOut)
	if !ok {
		return 1
	}
	pubHex, err := ks.Export(*name, *app)
	if err != nil {
		fmt.Fprintf(errOut, "key export: %v\n", err)
		return 1
	}
	fmt.Fprintln(out, pubHex)
	return 0
}
