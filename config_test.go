package phpguard_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phpguard/phpguard"
)

var _ = Describe("Configuration", func() {
	var configuration phpguard.Config
	BeforeEach(func() {
		configuration = phpguard.NewConfig()
	})

	Context("when loading from disk", func() {
		It("should be possible to load configuration from a file", func() {
			json := `{"P201": {}}`
			buffer := bytes.NewBufferString(json)
			nread, err := configuration.ReadFrom(buffer)
			Expect(nread).Should(Equal(int64(len(json))))
			Expect(err).ShouldNot(HaveOccurred())
		})

		It("should load YAML documents", func() {
			yml := `
global:
  nosec: enabled
P201:
  sources:
    - tainted_input
  sinks:
    - "->run(0)"
`
			_, err := configuration.ReadFrom(strings.NewReader(yml))
			Expect(err).ShouldNot(HaveOccurred())

			enabled, err := configuration.IsGlobalEnabled(phpguard.Nosec)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(enabled).Should(BeTrue())

			settings, err := configuration.RuleSettings("P201")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(settings).Should(HaveKeyWithValue("sources", []interface{}{"tainted_input"}))
		})

		It("should return an error if configuration file is invalid", func() {
			var err error
			invalidBuffer := bytes.NewBuffer([]byte{0xc0, 0xff, 0xee})
			_, err = configuration.ReadFrom(invalidBuffer)
			Expect(err).Should(HaveOccurred())

			emptyBuffer := bytes.NewBuffer([]byte{})
			_, err = configuration.ReadFrom(emptyBuffer)
			Expect(err).Should(HaveOccurred())
		})
	})

	Context("when saving to disk", func() {
		It("should be possible to save an empty configuration to file", func() {
			expected := `{"global":{}}`
			buffer := bytes.NewBuffer([]byte{})
			nbytes, err := configuration.WriteTo(buffer)
			Expect(int(nbytes)).Should(Equal(len(expected)))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buffer.String()).Should(Equal(expected))
		})

		It("should be possible to save configuration to file", func() {
			configuration.Set("P204", map[string][]string{
				"sinks": {"run_command"},
			})

			buffer := bytes.NewBuffer([]byte{})
			_, err := configuration.WriteTo(buffer)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(buffer.String()).Should(Equal(`{"P204":{"sinks":["run_command"]},"global":{}}`))
		})
	})

	Context("when configuring rules", func() {
		It("should be possible to get configuration for a rule", func() {
			configuration.Set("P203", map[string]string{"sanitizers": "e"})

			retrieved, err := configuration.Get("P203")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(retrieved).Should(HaveKeyWithValue("sanitizers", "e"))

			_, err = configuration.Get("P999")
			Expect(err).Should(HaveOccurred())
		})

		It("should reject rule sections that are not mappings", func() {
			configuration.Set("P201", "strict")
			_, err := configuration.RuleSettings("P201")
			Expect(err).Should(HaveOccurred())

			settings, err := configuration.RuleSettings("P204")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(settings).Should(BeNil())
		})
	})

	Context("when using global configuration options", func() {
		It("should have a default global section", func() {
			settings, err := configuration.Get("global")
			Expect(err).Should(BeNil())
			expectedType := make(map[phpguard.GlobalOption]string)
			Expect(settings).Should(BeAssignableToTypeOf(expectedType))
		})

		It("should save global settings to correct section", func() {
			configuration.SetGlobal(phpguard.Nosec, "enabled")
			settings, err := configuration.Get("global")
			Expect(err).Should(BeNil())
			globals, ok := settings.(map[phpguard.GlobalOption]string)
			Expect(ok).Should(BeTrue())
			Expect(globals["nosec"]).Should(Equal("enabled"))

			setValue, err := configuration.GetGlobal(phpguard.Nosec)
			Expect(err).Should(BeNil())
			Expect(setValue).Should(Equal("enabled"))
		})

		It("should find global settings which are enabled", func() {
			configuration.SetGlobal(phpguard.ShowIgnored, "true")
			enabled, err := configuration.IsGlobalEnabled(phpguard.ShowIgnored)
			Expect(err).Should(BeNil())
			Expect(enabled).Should(BeTrue())

			_, err = configuration.IsGlobalEnabled(phpguard.Nosec)
			Expect(err).Should(HaveOccurred())
		})

		It("should parse the global settings of other types from file", func() {
			config := `
			{
				"global": {
					"nosec": true
				}
			}`
			cfg := phpguard.NewConfig()
			_, err := cfg.ReadFrom(strings.NewReader(config))
			Expect(err).Should(BeNil())

			value, err := cfg.GetGlobal(phpguard.Nosec)
			Expect(err).Should(BeNil())
			Expect(value).Should(Equal("true"))
		})
	})

	Context("when reading path exclusions", func() {
		It("should decode the exclude-rules section", func() {
			config := `{"exclude-rules": [{"path": "vendor/.*", "rules": ["P201", "P203"]}, {"path": "legacy/", "rules": "*"}]}`
			_, err := configuration.ReadFrom(strings.NewReader(config))
			Expect(err).ShouldNot(HaveOccurred())

			rules, err := configuration.ExcludeRules()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(rules).Should(Equal([]phpguard.PathExcludeRule{
				{Path: "vendor/.*", Rules: []string{"P201", "P203"}},
				{Path: "legacy/", Rules: []string{"*"}},
			}))
		})

		It("should reject malformed sections", func() {
			configuration.Set(phpguard.ExcludeRulesKey, "vendor")
			_, err := configuration.ExcludeRules()
			Expect(err).Should(HaveOccurred())
		})
	})
})
