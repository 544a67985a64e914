// (c) Copyright phpguard's authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package vflag provides flag values validated at parse time.
package vflag

import (
	"fmt"
	"regexp"
	"strings"
)

var ruleID = regexp.MustCompile(`^P\d{3}$`)

// ValidatedFlag holds a comma separated list of rule ids.
type ValidatedFlag struct {
	Value string
}

func (f *ValidatedFlag) String() string {
	return f.Value
}

// Set will be called for flag that is of validateFlag type
func (f *ValidatedFlag) Set(value string) error {
	for _, id := range strings.Split(value, ",") {
		id = strings.TrimSpace(id)
		if !ruleID.MatchString(id) {
			return fmt.Errorf("invalid rule id %q", id)
		}
	}
	f.Value = value
	return nil
}

// IDs returns the rule ids of the flag, without blanks.
func (f *ValidatedFlag) IDs() []string {
	var ids []string
	for _, id := range strings.Split(f.Value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
