package phpguard_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/testutils"
)

var _ = Describe("Helpers", func() {
	Context("when listing source files", func() {
		var project *testutils.TestProject
		BeforeEach(func() {
			project = testutils.NewTestProject()
			Expect(project).ShouldNot(BeNil())
			for _, name := range []string{"index.php", "lib/db.PHP", "lib/readme.md", "vendor/pkg/a.php", ".git/hooks/b.php", "tpl/page.phtml"} {
				Expect(project.AddFile(name, "<?php\n")).Should(Succeed())
			}
		})
		AfterEach(func() {
			project.Close()
		})

		It("should list files with the extension in lexical order", func() {
			files, err := phpguard.SourceFiles(project.Path, phpguard.DefaultExtensions, nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(files).Should(Equal([]string{
				filepath.Join(project.Path, "index.php"),
				filepath.Join(project.Path, "lib", "db.PHP"),
				filepath.Join(project.Path, "vendor", "pkg", "a.php"),
			}))
		})

		It("should skip excluded folders", func() {
			files, err := phpguard.SourceFiles(project.Path, []string{"php", ".phtml"}, phpguard.ExcludedDirsRegExp([]string{"vendor"}))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(files).Should(ConsistOf(
				filepath.Join(project.Path, "index.php"),
				filepath.Join(project.Path, "lib", "db.PHP"),
				filepath.Join(project.Path, "tpl", "page.phtml"),
			))
		})

		It("should be empty when the folder does not exist", func() {
			files, err := phpguard.SourceFiles(filepath.Join(project.Path, "missing"), phpguard.DefaultExtensions, nil)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(files).Should(BeEmpty())
		})
	})

	Context("when getting the root path", func() {
		It("should return the absolute path from relative path", func() {
			base := "test"
			cwd, err := os.Getwd()
			Expect(err).ShouldNot(HaveOccurred())
			root, err := phpguard.RootPath(base)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(root).Should(Equal(filepath.Join(cwd, base)))
		})

		It("should return the absolute path from ellipsis path", func() {
			base := "test"
			cwd, err := os.Getwd()
			Expect(err).ShouldNot(HaveOccurred())
			root, err := phpguard.RootPath(filepath.Join(base, "..."))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(root).Should(Equal(filepath.Join(cwd, base)))
		})
	})

	Context("when excluding the dirs", func() {
		It("should create a proper regexp", func() {
			r := phpguard.ExcludedDirsRegExp([]string{"test"})
			Expect(r).Should(HaveLen(1))
			Expect(r[0].MatchString("/var/www/project/test/unit")).Should(BeTrue())
			Expect(r[0].MatchString("/var/www/project/vendor/pkg")).Should(BeFalse())
		})

		It("should create no regexp when dir list is empty", func() {
			Expect(phpguard.ExcludedDirsRegExp(nil)).Should(BeEmpty())
			Expect(phpguard.ExcludedDirsRegExp([]string{})).Should(BeEmpty())
		})
	})

	Context("when matching extensions", func() {
		It("should compare case insensitively", func() {
			Expect(phpguard.HasExtension("a.PHP", []string{"php"})).Should(BeTrue())
			Expect(phpguard.HasExtension("a.inc", []string{"php", ".inc"})).Should(BeTrue())
			Expect(phpguard.HasExtension("Makefile", []string{"php"})).Should(BeFalse())
		})
	})
})
