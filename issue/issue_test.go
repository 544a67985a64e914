package issue_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phpguard/phpguard/issue"
)

const source = `<?php
$q = "SELECT * FROM t WHERE id=" . $_GET['id'];
$db->query($q);
echo "done";`

func newIssue(ruleID, typ string, sev issue.Score) *issue.Issue {
	i := issue.New("index.php", 2, 3, []byte(source), ruleID, "desc", sev)
	i.Type = typ
	return i
}

var _ = Describe("Issue", func() {
	Context("when creating a new issue", func() {
		It("should slice the snippet verbatim from the source", func() {
			i := issue.New("index.php", 2, 3, []byte(source), "P201", "desc", issue.High)
			Expect(i.Code).To(Equal("$q = \"SELECT * FROM t WHERE id=\" . $_GET['id'];\n$db->query($q);"))
			Expect(i.Line).To(Equal(2))
			Expect(i.EndLine).To(Equal(3))
			Expect(i.LineRange()).To(Equal("2-3"))
			Expect(i.FileLocation()).To(Equal("index.php:2"))
		})

		It("should attach the CWE of the rule", func() {
			i := issue.New("index.php", 3, 3, []byte(source), "P201", "desc", issue.High)
			Expect(i.Cwe).ShouldNot(BeNil())
			Expect(i.Cwe.ID).To(Equal("89"))
			Expect(issue.GetCweByRule("P999")).To(BeNil())
		})

		It("should never end before it starts", func() {
			i := issue.New("index.php", 3, 1, []byte(source), "P204", "desc", issue.Critical)
			Expect(i.EndLine).To(Equal(3))
			Expect(i.LineRange()).To(Equal("3"))
		})
	})

	Context("when extracting code snippets", func() {
		It("should clamp the range to the file bounds", func() {
			Expect(issue.CodeSnippet([]byte(source), 0, 1)).To(Equal("<?php"))
			Expect(issue.CodeSnippet([]byte(source), 4, 10)).To(Equal(`echo "done";`))
			Expect(issue.CodeSnippet([]byte(source), 7, 9)).To(BeEmpty())
		})
	})

	Context("when converting scores", func() {
		It("should render lowercase names", func() {
			Expect(issue.Critical.String()).To(Equal("critical"))
			Expect(issue.Info.String()).To(Equal("info"))
			out, err := json.Marshal(issue.Medium)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(string(out)).To(Equal(`"medium"`))
		})

		It("should parse names case insensitively", func() {
			s, err := issue.ParseScore("HIGH")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(s).To(Equal(issue.High))

			_, err = issue.ParseScore("severe")
			Expect(err).To(HaveOccurred())
		})

		It("should unmarshal from JSON", func() {
			var s issue.Score
			Expect(json.Unmarshal([]byte(`"low"`), &s)).To(Succeed())
			Expect(s).To(Equal(issue.Low))
		})
	})
})

var _ = Describe("Collection", func() {
	It("should keep insertion order", func() {
		a := newIssue("P201", "SQL Injection", issue.High)
		b := newIssue("P203", "Cross-Site Scripting (XSS)", issue.Medium)
		c := issue.NewCollection(a, b)
		Expect(c.Len()).To(Equal(2))
		Expect(c.All()).To(Equal([]*issue.Issue{a, b}))
	})

	It("should merge another collection after its own items", func() {
		a1 := newIssue("P201", "SQL Injection", issue.High)
		a2 := newIssue("P201", "SQL Injection", issue.High)
		b1 := newIssue("P204", "Command Injection", issue.Critical)
		a := issue.NewCollection(a1, a2)
		b := issue.NewCollection(b1)

		a.Merge(b)
		Expect(a.Len()).To(Equal(3))
		Expect(a.All()).To(Equal([]*issue.Issue{a1, a2, b1}))
		Expect(b.Len()).To(Equal(1))
	})

	It("should keep duplicates", func() {
		i := newIssue("P203", "Cross-Site Scripting (XSS)", issue.Medium)
		c := issue.NewCollection(i, i)
		Expect(c.Len()).To(Equal(2))
	})

	It("should ignore nil merges and nil issues", func() {
		c := issue.NewCollection()
		c.Add(nil)
		c.Merge(nil)
		Expect(c.Len()).To(Equal(0))
	})

	It("should summarize by severity and type", func() {
		c := issue.NewCollection(
			newIssue("P201", "SQL Injection", issue.High),
			newIssue("P201", "SQL Injection", issue.High),
			newIssue("P204", "Command Injection", issue.Critical),
		)
		s := c.Summary()
		Expect(s.Total).To(Equal(3))
		Expect(s.BySeverity).To(Equal(map[string]int{
			"critical": 1, "high": 2, "medium": 0, "low": 0, "info": 0,
		}))
		Expect(s.ByType).To(Equal(map[string]int{
			"SQL Injection":     2,
			"Command Injection": 1,
		}))
	})
})
