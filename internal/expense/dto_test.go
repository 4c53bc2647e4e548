package expense_test

import (
	"encoding/json"
	"strings"
	"time"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseCreateExpense", func() {
	It("should accept a complete payload", func() {
		dto, err := expense.ParseCreateExpense(map[string]interface{}{
			"amount":      json.Number("42.50"),
			"category":    "Food",
			"date":        "2024-03-01T12:00:00Z",
			"description": "lunch",
			"id":          99,
		}, fixedNow)

		Expect(err).NotTo(HaveOccurred())
		Expect(dto.Amount.StringFixed(2)).To(Equal("42.50"))
		Expect(dto.Category).To(Equal("Food"))
		Expect(dto.Date).To(Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))
		Expect(*dto.Description).To(Equal("lunch"))
	})

	It("should round amounts to two decimals", func() {
		dto, err := expense.ParseCreateExpense(map[string]interface{}{"amount": json.Number("10.005"), "category": "Food"}, fixedNow)
		Expect(err).NotTo(HaveOccurred())
		Expect(dto.Amount.StringFixed(2)).To(Equal("10.01"))
	})

	It("should reject amounts that round to zero", func() {
		_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": json.Number("0.004"), "category": "Food"}, fixedNow)
		Expect(fieldCodes(err)).To(HaveKeyWithValue("amount", string(errors.ErrCodeInvalidAmount)))
	})

	It("should reject amounts above the column maximum", func() {
		_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": json.Number("100000000"), "category": "Food"}, fixedNow)
		Expect(fieldCodes(err)).To(HaveKeyWithValue("amount", string(errors.ErrCodeAmountTooHigh)))
	})

	It("should accept the column maximum", func() {
		_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": json.Number("99999999.99"), "category": "Food"}, fixedNow)
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("invalid amounts",
		func(raw interface{}) {
			_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": raw, "category": "Food"}, fixedNow)
			Expect(fieldCodes(err)).To(HaveKeyWithValue("amount", string(errors.ErrCodeInvalidAmount)))
		},
		Entry("negative", json.Number("-1")),
		Entry("zero", json.Number("0")),
		Entry("text", "ten"),
		Entry("boolean", true),
		Entry("object", map[string]interface{}{}),
		Entry("huge exponent", json.Number("1e99999999")),
		Entry("tiny exponent", json.Number("1e-99999999")),
		Entry("huge exponent as text", "9e2147483647"),
	)

	It("should reject extreme exponents without rescaling them", func() {
		done := make(chan error, 1)
		go func() {
			_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": json.Number("1e99999999"), "category": "Food"}, fixedNow)
			done <- err
		}()
		var err error
		Eventually(done, time.Second).Should(Receive(&err))
		Expect(fieldCodes(err)).To(HaveKeyWithValue("amount", string(errors.ErrCodeInvalidAmount)))
	})

	It("should still report large but bounded amounts as too high", func() {
		_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": json.Number("1e20"), "category": "Food"}, fixedNow)
		Expect(fieldCodes(err)).To(HaveKeyWithValue("amount", string(errors.ErrCodeAmountTooHigh)))
	})

	It("should require amount and category", func() {
		_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": nil}, fixedNow)
		Expect(fieldCodes(err)).To(Equal(map[string]string{
			"amount":   string(errors.ErrCodeValidationFailed),
			"category": string(errors.ErrCodeValidationFailed),
		}))
	})

	It("should match categories exactly", func() {
		for _, name := range []string{"food", "FOOD", " Food", "Saving and Investments"} {
			_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": 1, "category": name}, fixedNow)
			Expect(fieldCodes(err)).To(HaveKeyWithValue("category", string(errors.ErrCodeInvalidCategory)), name)
		}
	})

	It("should accept every enum member", func() {
		for _, name := range []string{"Food", "Transportation", "Entertainment", "Utilities", "Education", "Health", "Shopping", "Saving & Investments", "Other"} {
			_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": 1, "category": name}, fixedNow)
			Expect(err).NotTo(HaveOccurred(), name)
		}
	})

	It("should reject non-string categories", func() {
		_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": 1, "category": 3}, fixedNow)
		Expect(fieldCodes(err)).To(HaveKeyWithValue("category", string(errors.ErrCodeInvalidCategory)))
	})

	It("should keep an empty description distinct from null", func() {
		dto, err := expense.ParseCreateExpense(map[string]interface{}{"amount": 1, "category": "Food", "description": ""}, fixedNow)
		Expect(err).NotTo(HaveOccurred())
		Expect(dto.Description).NotTo(BeNil())
		Expect(*dto.Description).To(BeEmpty())

		dto, err = expense.ParseCreateExpense(map[string]interface{}{"amount": 1, "category": "Food", "description": nil}, fixedNow)
		Expect(err).NotTo(HaveOccurred())
		Expect(dto.Description).To(BeNil())
	})

	It("should limit descriptions to 255 characters", func() {
		_, err := expense.ParseCreateExpense(map[string]interface{}{
			"amount": 1, "category": "Food", "description": strings.Repeat("é", 255),
		}, fixedNow)
		Expect(err).NotTo(HaveOccurred())

		_, err = expense.ParseCreateExpense(map[string]interface{}{
			"amount": 1, "category": "Food", "description": strings.Repeat("a", 256),
		}, fixedNow)
		Expect(fieldCodes(err)).To(HaveKeyWithValue("description", string(errors.ErrCodeInvalidDescription)))
	})

	DescribeTable("dates",
		func(raw interface{}, valid bool) {
			_, err := expense.ParseCreateExpense(map[string]interface{}{"amount": 1, "category": "Food", "date": raw}, fixedNow)
			if valid {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(fieldCodes(err)).To(HaveKeyWithValue("date", string(errors.ErrCodeInvalidDate)))
			}
		},
		Entry("RFC 3339", "2024-03-01T10:00:00+07:00", true),
		Entry("milliseconds", "2024-03-01T10:00:00.123Z", true),
		Entry("local timestamp", "2024-03-01T10:00:00", true),
		Entry("plain date", "2024-03-01", true),
		Entry("null", nil, false),
		Entry("garbage", "next tuesday", false),
		Entry("impossible day", "2024-02-30", false),
		Entry("number", json.Number("20240301"), false),
		Entry("zero date", "0001-01-01", false),
	)

	It("should store dates in UTC", func() {
		dto, err := expense.ParseCreateExpense(map[string]interface{}{"amount": 1, "category": "Food", "date": "2024-03-01T10:00:00+07:00"}, fixedNow)
		Expect(err).NotTo(HaveOccurred())
		Expect(dto.Date).To(Equal(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC)))
	})
})

var _ = Describe("ParsePatch", func() {
	It("should produce an empty patch for an empty object", func() {
		patch, err := expense.ParsePatch(map[string]interface{}{})
		Expect(err).NotTo(HaveOccurred())
		Expect(patch.IsEmpty()).To(BeTrue())
	})

	It("should ignore unknown keys", func() {
		patch, err := expense.ParsePatch(map[string]interface{}{"id": 5, "user_id": 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(patch.IsEmpty()).To(BeTrue())
	})

	It("should only validate present fields", func() {
		patch, err := expense.ParsePatch(map[string]interface{}{"amount": json.Number("12.345")})
		Expect(err).NotTo(HaveOccurred())
		Expect(patch.Amount.StringFixed(2)).To(Equal("12.35"))
		Expect(patch.Category).To(BeNil())
		Expect(patch.Date).To(BeNil())
		Expect(patch.DescriptionSet).To(BeFalse())
	})

	It("should mark a null description as a clear", func() {
		patch, err := expense.ParsePatch(map[string]interface{}{"description": nil})
		Expect(err).NotTo(HaveOccurred())
		Expect(patch.DescriptionSet).To(BeTrue())
		Expect(patch.Description).To(BeNil())
		Expect(patch.IsEmpty()).To(BeFalse())
	})

	It("should reject nulls for required fields", func() {
		_, err := expense.ParsePatch(map[string]interface{}{"amount": nil, "category": nil, "date": nil})
		codes := fieldCodes(err)
		Expect(codes).To(HaveKeyWithValue("amount", string(errors.ErrCodeValidationFailed)))
		Expect(codes).To(HaveKeyWithValue("category", string(errors.ErrCodeValidationFailed)))
		Expect(codes).To(HaveKeyWithValue("date", string(errors.ErrCodeInvalidDate)))
	})

	It("should bound amount exponents", func() {
		_, err := expense.ParsePatch(map[string]interface{}{"amount": json.Number("1e99999999")})
		Expect(fieldCodes(err)).To(HaveKeyWithValue("amount", string(errors.ErrCodeInvalidAmount)))
	})

	It("should apply the same rules as creation", func() {
		_, err := expense.ParsePatch(map[string]interface{}{"amount": json.Number("-3"), "category": "Travel"})
		Expect(fieldCodes(err)).To(Equal(map[string]string{
			"amount":   string(errors.ErrCodeInvalidAmount),
			"category": string(errors.ErrCodeInvalidCategory),
		}))
	})
})
