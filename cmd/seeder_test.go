package cmd

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("seed", func() {
	It("should refuse the in-memory backend", func() {
		backend, err := storage.Open(internal.DatabaseConfig{Driver: internal.DriverMemory}, discard)
		Expect(err).NotTo(HaveOccurred())

		err = checkSeedTarget(backend)
		Expect(err).To(MatchError(ContainSubstring("persistent database")))
	})

	It("should accept a sql backend", func() {
		backend, err := storage.Open(internal.DatabaseConfig{
			Driver:       internal.DriverSQLite,
			Source:       ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
		}, discard)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(backend.Close)

		Expect(checkSeedTarget(backend)).To(Succeed())

		service := expense.NewService(backend.Repository, nil, discard)
		for _, input := range sampleExpenses(time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)) {
			_, err := service.CreateExpense(context.Background(), input)
			Expect(err).NotTo(HaveOccurred(), "%v", input)
		}

		summary, err := service.Summarize(context.Background(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Count).To(Equal(len(sampleExpenses(time.Now()))))
	})
})
