package main

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("prepareVersionInfo", func() {
	var originalVersion, originalGitTag, originalBuildDate string

	BeforeEach(func() {
		originalVersion, originalGitTag, originalBuildDate = Version, GitTag, BuildDate
	})

	AfterEach(func() {
		Version, GitTag, BuildDate = originalVersion, originalGitTag, originalBuildDate
	})

	Context("when Version is empty", func() {
		It("should fall back to the build info or 'dev'", func() {
			Version = ""
			prepareVersionInfo()
			Expect(Version).To(Or(Equal("dev"), HavePrefix("v")))
		})
	})

	Context("when Version is already set", func() {
		It("should not change the Version", func() {
			Version = "1.2.3"
			prepareVersionInfo()
			Expect(Version).To(Equal("1.2.3"))
		})
	})

	Context("with GitTag and BuildDate", func() {
		It("should not affect GitTag or BuildDate", func() {
			Version = ""
			GitTag = "v1.0.0"
			BuildDate = "2024-01-01"

			prepareVersionInfo()

			Expect(Version).NotTo(BeEmpty())
			Expect(GitTag).To(Equal("v1.0.0"))
			Expect(BuildDate).To(Equal("2024-01-01"))
		})
	})
})
