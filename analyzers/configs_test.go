package analyzers_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phpguard/phpguard/analyzers"
	"github.com/phpguard/phpguard/issue"
	"github.com/phpguard/phpguard/parser"
	"github.com/phpguard/phpguard/taint"
)

func create(id string, settings analyzers.Settings) (*taint.Analyzer, error) {
	def, ok := analyzers.Generate(false).Analyzers[id]
	Expect(ok).To(BeTrue())
	return def.Create(def.ID, settings)
}

func scan(a *taint.Analyzer, src string) []*issue.Issue {
	file, err := parser.Parse(context.Background(), []byte(src))
	Expect(err).ShouldNot(HaveOccurred())
	return a.Scan(file, []byte(src), "index.php").All()
}

var _ = Describe("Rule settings", func() {
	It("should build every rule without settings", func() {
		for _, def := range analyzers.Generate(false).Ordered() {
			a, err := def.Create(def.ID, nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(a.ID()).To(Equal(def.ID))
		}
	})

	It("should carry the rule metadata", func() {
		a, err := create("P204", nil)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(a.Rule().Type).To(Equal("Command Injection"))
		Expect(a.Rule().Severity).To(Equal(issue.Critical))
		Expect(a.Rule().CWE).To(Equal("78"))
	})

	It("should report on extra sinks", func() {
		src := "<?php\ndb_run(\"SELECT * FROM t WHERE id=\" . $_GET['id']);\n"

		a, err := create("P201", nil)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(scan(a, src)).To(BeEmpty())

		a, err = create("P201", analyzers.Settings{"sinks": []interface{}{"db_run(0)"}})
		Expect(err).ShouldNot(HaveOccurred())
		issues := scan(a, src)
		Expect(issues).To(HaveLen(1))
		Expect(issues[0].RuleID).To(Equal("P201"))
		Expect(issues[0].Line).To(Equal(2))
	})

	It("should honor extra sanitizers", func() {
		src := "<?php\n$name = clean($_GET['name']);\necho $name;\n"

		a, err := create("P203", nil)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(scan(a, src)).To(HaveLen(1))

		a, err = create("P203", analyzers.Settings{"sanitizers": "clean"})
		Expect(err).ShouldNot(HaveOccurred())
		Expect(scan(a, src)).To(BeEmpty())
	})

	It("should accept a plain string list", func() {
		_, err := create("P204", analyzers.Settings{"sources": []string{"argv"}})
		Expect(err).ShouldNot(HaveOccurred())
	})

	It("should reject list items that are not strings", func() {
		_, err := create("P201", analyzers.Settings{"sources": []interface{}{"input", 42}})
		Expect(err).To(MatchError(ContainSubstring("rule P201: sources: expected a string, got int")))
	})

	It("should reject values that are not lists", func() {
		_, err := create("P203", analyzers.Settings{"sanitizers": 3.5})
		Expect(err).To(MatchError(ContainSubstring("expected a list of strings, got float64")))
	})

	It("should reject malformed sinks", func() {
		_, err := create("P204", analyzers.Settings{"sinks": []interface{}{"run(1"}})
		Expect(err).To(MatchError(ContainSubstring("unterminated argument list")))
	})
})
