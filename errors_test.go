package phpguard_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/phpguard/phpguard"
	"github.com/phpguard/phpguard/testutils"
)

var _ = Describe("Error", func() {
	Context("when creating errors", func() {
		It("should create a new error with correct fields", func() {
			err := phpguard.NewError(10, 5, "unexpected '}'")
			Expect(err).ToNot(BeNil())
			Expect(err.Line).To(Equal(10))
			Expect(err.Column).To(Equal(5))
			Expect(err.Err).To(Equal("unexpected '}'"))
		})

		It("should handle zero values", func() {
			err := phpguard.NewError(0, 0, "")
			Expect(err).ToNot(BeNil())
			Expect(err.Line).To(Equal(0))
			Expect(err.Column).To(Equal(0))
			Expect(err.Err).To(Equal(""))
		})
	})

	Context("when reporting parse errors", func() {
		It("should key errors by file and sort them by position", func() {
			logger, _ := testutils.NewLogger()
			analyzer := phpguard.NewAnalyzer(phpguard.NewConfig(), false, 1, logger)

			_, err := analyzer.AnalyzeSource(context.Background(), "b.php", []byte("<?php\n$a = ;\n"))
			Expect(err).ShouldNot(HaveOccurred())
			_, err = analyzer.AnalyzeSource(context.Background(), "a.php", []byte("<?php\nfunction (\n"))
			Expect(err).ShouldNot(HaveOccurred())

			_, _, errors := analyzer.Report()
			Expect(errors).Should(HaveLen(2))
			Expect(errors).Should(HaveKey("a.php"))
			Expect(errors).Should(HaveKey("b.php"))
			Expect(errors["b.php"][0].Line).Should(BeNumerically(">=", 2))
		})
	})
})
