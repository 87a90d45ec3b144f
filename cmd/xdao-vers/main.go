package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-cid"

	"xdao.co/vers/codec/jsoncodec"
	"xdao.co/vers/codec/tomlcodec"
	"xdao.co/vers/codec/yamlcodec"
	"xdao.co/vers/fingerprint"
	"xdao.co/vers/keys"
	"xdao.co/vers/manifest"
	"xdao.co/vers/store/registry"
	"xdao.co/vers/vers"

	_ "xdao.co/vers/remote"
	_ "xdao.co/vers/store/localfs"
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
	case "tag":
		return cmdTag(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "manifest":
		return cmdManifest(args[1:], out, errOut)
	case "archive":
		return cmdArchive(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
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
	fmt.Fprintln(w, "xdao-vers: versioned record tooling")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-vers tag [--format json|yaml|toml] <file>")
	fmt.Fprintln(w, "  xdao-vers cid <file>")
	fmt.Fprintln(w, "  xdao-vers manifest verify <file>")
	fmt.Fprintln(w, "  xdao-vers manifest verify --recorded <file> --snapshot <file>")
	fmt.Fprintln(w, "  xdao-vers manifest sign --manifest <file> (--seed-hex <64hex> | --signer <name> [--signer-role <role>] | --key-file <path>) [--alg ed25519|dilithium3] [--hash <alg>]")
	fmt.Fprintln(w, "  xdao-vers manifest verify-sig --manifest <file> --sig <alg:hashalg:base64> --signer-key <key>")
	fmt.Fprintln(w, "  xdao-vers archive put --backend <name> [backend flags] <file>")
	fmt.Fprintln(w, "  xdao-vers archive get --backend <name> [backend flags] <CID>")
	fmt.Fprintln(w, "  xdao-vers archive has --backend <name> [backend flags] <CID>")
	fmt.Fprintln(w, "  xdao-vers key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  xdao-vers key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  xdao-vers key list")
	fmt.Fprintln(w, "  xdao-vers key export --name <name> [--role <role>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - tag reads the version discriminant without decoding the payload")
	fmt.Fprintln(w, "  - --seed-hex must be a 32-byte signer seed (64 hex chars)")
	fmt.Fprintln(w, "  - KMS-lite stores keys under ~/.xdao/vers/keys/<name> (0600 private key files)")
	fmt.Fprintln(w, "  - manifest sign signs the manifest's canonical bytes and prints the detached signature")
	fmt.Fprintln(w, "  - archive put stores raw record bytes and prints the CID")
}

func peekFor(format string) (func([]byte) (vers.Tag, error), error) {
	switch format {
	case "json":
		return jsoncodec.Peek, nil
	case "yaml", "yml":
		return yamlcodec.Peek, nil
	case "toml":
		return tomlcodec.Peek, nil
	default:
		return nil, fmt.Errorf("unsupported format %q (expected json, yaml, or toml)", format)
	}
}

func cmdTag(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("tag", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var format string
	fs.StringVar(&format, "format", "", "Record format: json, yaml, or toml (default: from file extension)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-vers tag [--format json|yaml|toml] <file>")
		return 2
	}
	path := fs.Arg(0)
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	peek, err := peekFor(format)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}

	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}
	tag, err := peek(b)
	if err != nil {
		fmt.Fprintf(errOut, "tag: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, tag)
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("cid", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-vers cid <file>")
		return 2
	}
	path := fs.Arg(0)
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}
	_, _ = fmt.Fprintln(out, fingerprint.CIDv1RawSHA256(b))
	return 0
}

func cmdManifest(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-vers manifest <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: verify, sign, verify-sig")
		return 2
	}
	switch args[0] {
	case "verify":
		return cmdManifestVerify(args[1:], out, errOut)
	case "sign":
		return cmdManifestSign(args[1:], out, errOut)
	case "verify-sig":
		return cmdManifestVerifySig(args[1:], out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown manifest subcommand: %s\n", args[0])
		return 2
	}
}

func readManifestFile(path string, errOut io.Writer) (manifest.Manifest, bool) {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(errOut, "read manifest: %v\n", err)
		return nil, false
	}
	defer f.Close()
	mf, err := manifest.Read(f)
	if err != nil {
		fmt.Fprintf(errOut, "parse manifest: %v\n", err)
		return nil, false
	}
	return mf, true
}

func cmdManifestVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("manifest verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var recordedPath string
	var snapshotPath string
	fs.StringVar(&recordedPath, "recorded", "", "Committed manifest file to check against")
	fs.StringVar(&snapshotPath, "snapshot", "", "Freshly exported manifest file")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if (recordedPath == "") != (snapshotPath == "") {
		fmt.Fprintln(errOut, "--recorded and --snapshot must be given together")
		return 2
	}

	// Two-file mode: entry-wise drift check between a committed manifest
	// and a fresh snapshot.
	if recordedPath != "" {
		if fs.NArg() != 0 {
			fmt.Fprintln(errOut, "usage: xdao-vers manifest verify --recorded <file> --snapshot <file>")
			return 2
		}
		recorded, ok := readManifestFile(recordedPath, errOut)
		if !ok {
			return 1
		}
		snapshot, ok := readManifestFile(snapshotPath, errOut)
		if !ok {
			return 1
		}
		if err := recorded.Validate(); err != nil {
			fmt.Fprintf(errOut, "invalid --recorded: %v\n", err)
			return 1
		}
		if err := snapshot.Validate(); err != nil {
			fmt.Fprintf(errOut, "invalid --snapshot: %v\n", err)
			return 1
		}
		if err := manifest.Compare(snapshot, recorded); err != nil {
			fmt.Fprintf(errOut, "drift: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, "OK")
		return 0
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: xdao-vers manifest verify <file>")
		return 2
	}
	mf, ok := readManifestFile(fs.Arg(0), errOut)
	if !ok {
		return 1
	}
	if err := mf.Validate(); err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdManifestSign(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("manifest sign", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var manifestPath string
	var seedHex string
	var signerName string
	var signerRole string
	var keyFile string
	var sigAlg string
	var hashAlg string
	var printSignerKey bool

	fs.StringVar(&manifestPath, "manifest", "", "Manifest file to sign")
	fs.StringVar(&seedHex, "seed-hex", "", "Signer seed as 64 hex chars")
	fs.StringVar(&signerName, "signer", "", "Use a stored key by name (from 'xdao-vers key init')")
	fs.StringVar(&signerRole, "signer-role", "", "When using --signer, optionally use a derived role key")
	fs.StringVar(&keyFile, "key-file", "", "Path to a seed file (hex) created by 'xdao-vers key init/derive'")
	fs.StringVar(&sigAlg, "alg", "ed25519", "Signature algorithm: ed25519 or dilithium3")
	fs.StringVar(&hashAlg, "hash", "sha256", "Digest algorithm: sha256, sha512, or sha3-256")
	fs.BoolVar(&printSignerKey, "print-signer-key", true, "Print Signer-Key to stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if manifestPath == "" {
		fmt.Fprintln(errOut, "missing --manifest")
		return 2
	}
	if seedHex == "" && signerName == "" && keyFile == "" {
		fmt.Fprintln(errOut, "missing signer: use --seed-hex, --signer, or --key-file")
		return 2
	}
	if seedHex != "" && (signerName != "" || keyFile != "") {
		fmt.Fprintln(errOut, "conflicting signer flags: --seed-hex cannot be combined with --signer or --key-file")
		return 2
	}
	if signerName != "" && keyFile != "" {
		fmt.Fprintln(errOut, "conflicting signer flags: --signer cannot be combined with --key-file")
		return 2
	}

	mf, ok := readManifestFile(manifestPath, errOut)
	if !ok {
		return 1
	}
	if err := mf.Validate(); err != nil {
		fmt.Fprintf(errOut, "invalid manifest: %v\n", err)
		return 1
	}

	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	seed, err := ks.LoadSeed(seedHex, signerName, signerRole, keyFile)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return 2
	}

	var sig manifest.Signature
	switch sigAlg {
	case "ed25519":
		priv := ed25519.NewKeyFromSeed(seed)
		if printSignerKey {
			fmt.Fprintf(errOut, "Signer-Key: %s\n", keys.GenerateSignerKeyFromSeed(seed))
		}
		sig, err = mf.SignEd25519(hashAlg, priv)
	case "dilithium3":
		pub, priv, derr := keys.Dilithium3KeypairFromSeed(seed)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid signer: %v\n", derr)
			return 2
		}
		if printSignerKey {
			signerKey, ferr := keys.FormatDilithium3PublicKey(pub)
			if ferr != nil {
				fmt.Fprintf(errOut, "signer key: %v\n", ferr)
				return 1
			}
			fmt.Fprintf(errOut, "Signer-Key: %s\n", signerKey)
		}
		sig, err = mf.SignDilithium3(hashAlg, priv)
	default:
		fmt.Fprintf(errOut, "unsupported --alg %q (expected ed25519 or dilithium3)\n", sigAlg)
		return 2
	}
	if err != nil {
		fmt.Fprintf(errOut, "sign: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, sig.String())
	return 0
}

func cmdManifestVerifySig(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("manifest verify-sig", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var manifestPath string
	var sigStr string
	var signerKey string

	fs.StringVar(&manifestPath, "manifest", "", "Manifest file")
	fs.StringVar(&sigStr, "sig", "", "Detached signature (alg:hashalg:base64), or @<file> to read from a file")
	fs.StringVar(&signerKey, "signer-key", "", "Signer key (ed25519:<base64> or dilithium3:<base64>)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if manifestPath == "" {
		fmt.Fprintln(errOut, "missing --manifest")
		return 2
	}
	if sigStr == "" {
		fmt.Fprintln(errOut, "missing --sig")
		return 2
	}
	if signerKey == "" {
		fmt.Fprintln(errOut, "missing --signer-key")
		return 2
	}

	if after, ok := strings.CutPrefix(sigStr, "@"); ok {
		b, err := os.ReadFile(after)
		if err != nil {
			fmt.Fprintf(errOut, "read --sig: %v\n", err)
			return 1
		}
		sigStr = strings.TrimSpace(string(b))
	}

	mf, ok := readManifestFile(manifestPath, errOut)
	if !ok {
		return 1
	}
	sig, err := manifest.ParseSignature(sigStr)
	if err != nil {
		fmt.Fprintf(errOut, "invalid --sig: %v\n", err)
		return 2
	}
	if err := mf.VerifySignature(sig, signerKey); err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

func cmdArchive(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "usage: xdao-vers archive <subcommand> ...")
		fmt.Fprintln(errOut, "subcommands: put, get, has")
		return 2
	}
	sub := args[0]
	switch sub {
	case "put", "get", "has":
	default:
		fmt.Fprintf(errOut, "unknown archive subcommand: %s\n", sub)
		return 2
	}

	fs := flag.NewFlagSet("archive "+sub, flag.ContinueOnError)
	fs.SetOutput(errOut)

	var backend string
	var listBackends bool
	fs.StringVar(&backend, "backend", "localfs", "Record store backend name")
	fs.BoolVar(&listBackends, "list-backends", false, "List supported backends and exit")
	registry.RegisterFlags(fs, registry.UsageCLI)

	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if listBackends {
		for _, b := range registry.List(registry.UsageCLI) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(out, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(errOut, "usage: xdao-vers archive %s --backend <name> [backend flags] <arg>\n", sub)
		return 2
	}

	s, closeFn, err := registry.Open(backend, registry.UsageCLI)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	switch sub {
	case "put":
		b, err := os.ReadFile(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(fs.Arg(0)), err)
			return 1
		}
		id, err := s.Put(b)
		if err != nil {
			fmt.Fprintf(errOut, "put: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(out, id)
		return 0
	case "get":
		id, err := cid.Decode(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "invalid CID: %v\n", err)
			return 2
		}
		b, err := s.Get(id)
		if err != nil {
			fmt.Fprintf(errOut, "get: %v\n", err)
			return 1
		}
		_, _ = out.Write(b)
		return 0
	default: // has
		id, err := cid.Decode(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(errOut, "invalid CID: %v\n", err)
			return 2
		}
		_, _ = fmt.Fprintln(out, s.Has(id))
		return 0
	}
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
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
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "xdao-vers key: minimal local key management (KMS-lite)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  xdao-vers key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  xdao-vers key derive --from <name> --role <role> [--force]")
	fmt.Fprintln(w, "  xdao-vers key list")
	fmt.Fprintln(w, "  xdao-vers key export --name <name> [--role <role>]")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var seedHex string
	var force bool

	fs.StringVar(&name, "name", "", "Key name (directory under ~/.xdao/vers/keys)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional ed25519 seed as 64 hex chars (for reproducible demos)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		var derr error
		seed, derr = keys.ParseSeedHex(seedHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", derr)
			return 2
		}
	} else {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			fmt.Fprintf(errOut, "rand: %v\n", err)
			return 1
		}
	}

	signerKey, rootPath, err := ks.InitializeRootKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created root key: %s\n", signerKey)
	fmt.Fprintf(out, "Stored at: %s\n", rootPath)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var from string
	var role string
	var force bool

	fs.StringVar(&from, "from", "", "Root key name")
	fs.StringVar(&role, "role", "", "Role identifier (e.g. author, reviewer)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if role == "" {
		fmt.Fprintln(errOut, "missing --role")
		return 2
	}
	if err := keys.CheckKeyName(from); err != nil {
		fmt.Fprintf(errOut, "invalid --from: %v\n", err)
		return 2
	}
	if err := keys.CheckRole(role); err != nil {
		fmt.Fprintf(errOut, "invalid --role: %v\n", err)
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	signerKey, rolePath, err := ks.DeriveKeyFromRole(from, role, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive role key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created role key: %s\n", signerKey)
	fmt.Fprintf(out, "Stored at: %s\n", rolePath)
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var role string

	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&role, "role", "", "Optional role (if set, exports derived role key)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	if role != "" {
		if err := keys.CheckRole(role); err != nil {
			fmt.Fprintf(errOut, "invalid --role: %v\n", err)
			return 2
		}
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	signerKey, err := ks.ExportKey(name, role)
	if err != nil {
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, signerKey)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	ks, err := keys.CreateKeyStore("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := ks.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s\n", e.Identifier)
		for _, r := range e.Permissions {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	return 0
}
