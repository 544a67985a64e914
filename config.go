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

package phpguard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	// Globals are applicable to all rules and used for general
	// configuration settings for phpguard.
	Globals = "global"
	// ExcludeRulesKey is the section holding path scoped rule exclusions
	ExcludeRulesKey = "exclude-rules"
)

// GlobalOption defines the name of the global options
type GlobalOption string

const (
	// Nosec global option for #nosec directive
	Nosec GlobalOption = "nosec"
	// ShowIgnored defines whether nosec issues are counted as finding or not
	ShowIgnored GlobalOption = "show-ignored"
	// NoSecAlternative global option alternative for #nosec directive
	NoSecAlternative GlobalOption = "#nosec"
)

// Config is used to provide configuration and customization to each of the rules.
type Config map[string]interface{}

// NewConfig initializes a new configuration instance. The configuration data then
// needs to be loaded via c.ReadFrom(strings.NewReader("config data"))
// or from a *os.File.
func NewConfig() Config {
	cfg := make(Config)
	cfg[Globals] = make(map[GlobalOption]string)
	return cfg
}

func (c Config) keyToGlobalOptions(key string) GlobalOption {
	return GlobalOption(key)
}

func (c Config) convertGlobals() {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[string]interface{}); ok {
			validGlobals := map[GlobalOption]string{}
			for k, v := range settings {
				validGlobals[c.keyToGlobalOptions(k)] = fmt.Sprintf("%v", v)
			}
			c[Globals] = validGlobals
		}
	}
}

// ReadFrom implements the io.ReaderFrom interface. The data is decoded as
// JSON and, when that fails, as YAML.
func (c Config) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return 0, errors.New("empty configuration")
	}
	if jsonErr := json.Unmarshal(data, &c); jsonErr != nil {
		if yamlErr := yaml.Unmarshal(data, &c); yamlErr != nil {
			return int64(len(data)), fmt.Errorf("decoding config: %w", errors.Join(jsonErr, yamlErr))
		}
	}
	c.convertGlobals()
	return int64(len(data)), nil
}

// WriteTo implements the io.WriteTo interface. This should be used to save
// or print out the configuration information.
func (c Config) WriteTo(w io.Writer) (int64, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return int64(len(data)), err
	}
	return io.Copy(w, bytes.NewReader(data))
}

// Get returns the configuration section for the supplied key
func (c Config) Get(section string) (interface{}, error) {
	settings, found := c[section]
	if !found {
		return nil, fmt.Errorf("section %s not in configuration", section)
	}
	return settings, nil
}

// Set section in the configuration
func (c Config) Set(section string, value interface{}) {
	c[section] = value
}

// GetGlobal returns value associated with global configuration option
func (c Config) GetGlobal(option GlobalOption) (string, error) {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[GlobalOption]string); ok {
			if value, ok := settings[option]; ok {
				return value, nil
			}
			return "", fmt.Errorf("global setting for %s not found", option)
		}
	}
	return "", fmt.Errorf("no global config options found")
}

// SetGlobal associates a value with a global configuration option
func (c Config) SetGlobal(option GlobalOption, value string) {
	if globals, ok := c[Globals]; ok {
		if settings, ok := globals.(map[GlobalOption]string); ok {
			settings[option] = value
			return
		}
	}
	c[Globals] = map[GlobalOption]string{option: value}
}

// IsGlobalEnabled checks if a global option is enabled
func (c Config) IsGlobalEnabled(option GlobalOption) (bool, error) {
	value, err := c.GetGlobal(option)
	if err != nil {
		return false, err
	}
	return value == "true" || value == "enabled", nil
}

// RuleSettings returns the section of a rule as a plain map. A missing
// section yields nil.
func (c Config) RuleSettings(ruleID string) (map[string]interface{}, error) {
	section, found := c[ruleID]
	if !found || section == nil {
		return nil, nil
	}
	settings, ok := section.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("section %s: expected a mapping, got %T", ruleID, section)
	}
	return settings, nil
}

// ExcludeRules decodes the exclude-rules section.
func (c Config) ExcludeRules() ([]PathExcludeRule, error) {
	section, found := c[ExcludeRulesKey]
	if !found || section == nil {
		return nil, nil
	}
	if rules, ok := section.([]PathExcludeRule); ok {
		return rules, nil
	}
	entries, ok := section.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", ExcludeRulesKey, section)
	}
	rules := make([]PathExcludeRule, 0, len(entries))
	for i, entry := range entries {
		fields, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a mapping, got %T", ExcludeRulesKey, i, entry)
		}
		path, _ := fields["path"].(string)
		rule := PathExcludeRule{Path: path}
		switch ids := fields["rules"].(type) {
		case string:
			rule.Rules = []string{ids}
		case []interface{}:
			for _, id := range ids {
				s, ok := id.(string)
				if !ok {
					return nil, fmt.Errorf("%s[%d]: rule ids must be strings", ExcludeRulesKey, i)
				}
				rule.Rules = append(rule.Rules, s)
			}
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
