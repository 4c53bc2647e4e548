package expense_test

import (
	"time"

	"github.com/frahmantamala/expense-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

func newStored(id int64, amount, category string) *expense.Expense {
	return &expense.Expense{
		ID:       id,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var _ = Describe("Summarize", func() {
	var expenses []*expense.Expense

	BeforeEach(func() {
		expenses = []*expense.Expense{
			newStored(1, "10.00", "Food"),
			newStored(2, "20.00", "Food"),
			newStored(3, "15.50", "Transportation"),
			newStored(4, "4.50", "Other"),
			newStored(5, "0.01", "Health"),
		}
	})

	It("should total a filtered category", func() {
		summary := expense.Summarize(expenses, "Food")
		Expect(summary.Total.StringFixed(2)).To(Equal("30.00"))
		Expect(summary.Count).To(Equal(2))
		Expect(summary.ByCategory).To(HaveLen(1))
		Expect(summary.ByCategory[0].Percentage.StringFixed(2)).To(Equal("100.00"))
		Expect(summary.ByCategory[0].Label()).To(Equal("Food (100%)"))
	})

	It("should list categories in display order", func() {
		summary := expense.Summarize(expenses, "")
		names := make([]string, len(summary.ByCategory))
		for i, ct := range summary.ByCategory {
			names[i] = ct.Category
		}
		Expect(names).To(Equal([]string{"Food", "Transportation", "Health", "Other"}))
		Expect(summary.ByCategory[0].Color).To(Equal("#FF5722"))
	})

	It("should keep the sum of subtotals equal to the total for every filter", func() {
		for _, filter := range []string{"", "Food", "Transportation", "Other", "Health", "Shopping"} {
			summary := expense.Summarize(expenses, filter)
			sum := decimal.Zero
			for _, ct := range summary.ByCategory {
				sum = sum.Add(ct.Amount)
			}
			Expect(sum.Equal(summary.Total)).To(BeTrue(), filter)
		}
	})

	It("should compute percentages of the total", func() {
		summary := expense.Summarize([]*expense.Expense{
			newStored(1, "60.00", "Food"),
			newStored(2, "30.00", "Shopping"),
			newStored(3, "10.00", "Other"),
		}, "")
		Expect(summary.ByCategory[0].Percentage.StringFixed(2)).To(Equal("60.00"))
		Expect(summary.ByCategory[1].Label()).To(Equal("Shopping (30%)"))
		Expect(summary.ByCategory[2].Percentage.StringFixed(2)).To(Equal("10.00"))
	})

	It("should round percentages to two places", func() {
		summary := expense.Summarize([]*expense.Expense{
			newStored(1, "1.00", "Food"),
			newStored(2, "2.00", "Other"),
		}, "")
		Expect(summary.ByCategory[0].Percentage.String()).To(Equal("33.33"))
		Expect(summary.ByCategory[1].Percentage.String()).To(Equal("66.67"))
	})

	It("should degrade to zero for an empty selection", func() {
		summary := expense.Summarize(expenses, "Shopping")
		Expect(summary.Total.IsZero()).To(BeTrue())
		Expect(summary.Count).To(BeZero())
		Expect(summary.ByCategory).To(BeEmpty())
		Expect(summary.ToResponse().TotalFormatted).To(Equal("$0.00"))

		Expect(expense.Summarize(nil, "").ByCategory).To(BeEmpty())
	})

	It("should render a JSON friendly response", func() {
		resp := expense.Summarize(expenses, "Food").ToResponse()
		Expect(string(resp.Total)).To(Equal("30.00"))
		Expect(resp.TotalFormatted).To(Equal("$30.00"))
		Expect(resp.ByCategory[0].Label).To(Equal("Food (100%)"))
	})
})

var _ = Describe("FormatCurrency", func() {
	DescribeTable("formats dollars",
		func(amount, expected string) {
			Expect(expense.FormatCurrency(decimal.RequireFromString(amount))).To(Equal(expected))
		},
		Entry("zero", "0", "$0.00"),
		Entry("cents", "0.5", "$0.50"),
		Entry("hundreds", "999.99", "$999.99"),
		Entry("thousands", "1234.5", "$1,234.50"),
		Entry("millions", "12345678.9", "$12,345,678.90"),
		Entry("negative", "-1000", "-$1,000.00"),
	)
})
