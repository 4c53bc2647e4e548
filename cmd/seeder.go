package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/storage"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample expenses for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		lg := logger.LoggerWrapper()
		backend, err := storage.Open(cfg.Database, lg)
		if err != nil {
			log.Fatalf("failed to init storage: %v", err)
		}
		defer backend.Close()

		if err := checkSeedTarget(backend); err != nil {
			log.Fatal(err)
		}

		service := expense.NewService(backend.Repository, nil, lg)
		ctx := context.Background()

		if clearData {
			removed, err := service.ClearExpenses(ctx)
			if err != nil {
				log.Fatalf("failed to clear expenses: %v", err)
			}
			lg.Info("cleared existing expenses", "count", removed)
		}

		created := 0
		for _, input := range sampleExpenses(time.Now().UTC()) {
			e, err := service.CreateExpense(ctx, input)
			if err != nil {
				log.Fatalf("failed to seed expense %v: %v", input, err)
			}
			created++
			lg.Debug("seeded expense", "id", e.ID, "category", e.Category, "amount", e.Amount.StringFixed(2))
		}

		lg.Info("seeding completed", "count", created, "driver", backend.Driver)
	},
}

// checkSeedTarget refuses backends whose data would vanish when seed exits.
func checkSeedTarget(backend *storage.Backend) error {
	if backend.IsPersistent() {
		return nil
	}
	return fmt.Errorf("seed needs a persistent database: driver %q keeps expenses in memory only; set database.driver to postgres, mysql or sqlite", backend.Driver)
}

func sampleExpenses(now time.Time) []map[string]interface{} {
	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format("2006-01-02")
	}
	return []map[string]interface{}{
		{"amount": "42.50", "category": category.Food, "date": day(0), "description": "Lunch with team"},
		{"amount": "12.00", "category": category.Transportation, "date": day(1), "description": "Bus pass top-up"},
		{"amount": "120.75", "category": category.Utilities, "date": day(3), "description": "Electricity bill"},
		{"amount": "18.99", "category": category.Entertainment, "date": day(4), "description": "Movie night"},
		{"amount": "64.30", "category": category.Shopping, "date": day(6)},
		{"amount": "35.00", "category": category.Health, "date": day(9), "description": "Pharmacy"},
		{"amount": "250.00", "category": category.Education, "date": day(12), "description": "Online course"},
		{"amount": "9.60", "category": category.Food, "date": day(14), "description": "Coffee beans"},
	}
}
