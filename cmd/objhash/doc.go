// Command objhash prints fingerprints of JSON, YAML and TOML documents.
//
// Usage:
//
//	objhash sum [file ...]          fingerprint every document
//	objhash canonical [file ...]    print canonical strings
//	objhash compare a b [file ...]  compare fingerprints, exit 1 on mismatch
//	objhash config                  show the effective options
//
// A file argument of "-", or no argument, reads standard input. Options are
// read from the nearest .objhash.yaml, .objhash.yml or .objhash.toml and can
// be overridden with flags.
package main
