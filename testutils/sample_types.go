package testutils

import "github.com/phpguard/phpguard"

// CodeSample encapsulates a snippet of PHP source code and how many issues
// the rule under test should report for it
type CodeSample struct {
	Code   string
	Errors int
	Config phpguard.Config
}
