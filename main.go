// Package main provides the entry point for the malwatch batch job, which
// cross-references a malicious-package threat feed against the organization's
// software composition inventory.
package main

import (
	"github.com/vulnmgt/malwatch/cmd"
)

func main() {
	cmd.Execute()
}
