// SPDX-License-Identifier: MPL-2.0

// gonix is a thin command-line front end over the typed nix client in
// pkg/nix, mainly useful for exercising a configuration against a real or
// fake nix binary.
package main

func main() {
	Execute()
}
