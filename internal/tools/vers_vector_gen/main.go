// Command vers_vector_gen regenerates the decode conformance vectors and
// their .cid sidecars under testdata/conformance/vers-1.
//
// Vector bytes are fixed: they are wire-format inputs that decoders must
// accept (or reject) byte-for-byte, so they are spelled out here rather than
// produced by an encoder.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"xdao.co/vers/fingerprint"
)

var vectors = []struct {
	name string
	data string
}{
	{"user_v1.json", `{"version":"1","name":"Eve"}`},
	{"user_v2.json", `{"version":"2","name":"David","age":35}`},
	{"user_v1.yaml", "version: \"1\"\nname: Eve\n"},
	{"user_v2.yaml", "version: \"2\"\nname: David\nage: 35\n"},
	{"user_v1.toml", "version = \"1\"\nname = \"Eve\"\n"},
	{"user_v2.toml", "version = \"2\"\nname = \"David\"\nage = 35\n"},
	{"unknown_v9.json", `{"version":"9","name":"X"}`},
}

func main() {
	outDir := flag.String("out", "testdata/conformance/vers-1", "output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fatalf("mkdir: %v", err)
	}
	for _, v := range vectors {
		path := filepath.Join(*outDir, v.name)
		if err := os.WriteFile(path, []byte(v.data), 0o644); err != nil {
			fatalf("write %s: %v", v.name, err)
		}
		cid := fingerprint.CIDv1RawSHA256([]byte(v.data))
		if err := os.WriteFile(path+".cid", []byte(cid+"\n"), 0o644); err != nil {
			fatalf("write %s.cid: %v", v.name, err)
		}
		fmt.Printf("%s\t%s\n", cid, v.name)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
