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

package analyzers

import (
	"fmt"

	"github.com/phpguard/phpguard/taint"
)

// Superglobals returns the request and environment superglobals that carry
// attacker controlled data.
func Superglobals() []string {
	return []string{"_GET", "_POST", "_REQUEST", "_COOKIE", "_FILES", "_SERVER", "_ENV"}
}

// Settings is the configuration section of one rule. The keys "sources",
// "sinks" and "sanitizers" extend the built-in catalog; sinks use the
// syntax accepted by taint.ParseSink.
type Settings map[string]interface{}

func build(rule taint.RuleInfo, config taint.Config, id string, settings Settings) (*taint.Analyzer, error) {
	rule.ID = id

	sources, err := settings.strings("sources")
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", id, err)
	}
	sanitizers, err := settings.strings("sanitizers")
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", id, err)
	}
	specs, err := settings.strings("sinks")
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", id, err)
	}
	sinks := make([]taint.Sink, 0, len(specs))
	for _, spec := range specs {
		sink, err := taint.ParseSink(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", id, err)
		}
		sinks = append(sinks, sink)
	}

	config = config.Extend(sources, sinks, sanitizers)
	return taint.New(&rule, &config), nil
}

// strings reads a list of strings, accepting the shapes produced by both
// the JSON and YAML decoders.
func (s Settings) strings(key string) ([]string, error) {
	raw, ok := s[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s: expected a string, got %T", key, item)
			}
			out = append(out, str)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s: expected a list of strings, got %T", key, raw)
}
