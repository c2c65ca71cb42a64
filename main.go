// Command hfsx reads HFS and HFS+ volumes directly from a raw device
// or disk image: analyze, list, extract, and discover, all read-only.
package main

import "github.com/deploymenttheory/hfsx/cmd"

func main() {
	cmd.Execute()
}
