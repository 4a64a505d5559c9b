package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mealbook/backend/config"
	"github.com/mealbook/backend/internal/database"
	"github.com/mealbook/backend/internal/service"
	"github.com/mealbook/backend/internal/types"
)

// SeedFile is the YAML document read by the seeder
type SeedFile struct {
	Meals []types.AddMealRequest `yaml:"meals"`
}

func main() {
	if err := newSeedCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newSeedCommand() *cobra.Command {
	var (
		file    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:          "seed_meals",
		Short:        "Load meals from a YAML file into the database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			meals, err := loadSeedFile(file)
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			db, err := database.New(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if migrate {
				if err := database.RunMigrations(db); err != nil {
					return err
				}
			}

			count, err := seedMeals(cmd.Context(), service.NewMealService(db), meals)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d meals\n", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seeds/meals.yaml", "YAML file with meals to insert")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply migrations before seeding")

	return cmd
}

// loadSeedFile reads and checks every meal of a seed file before anything is
// written
func loadSeedFile(path string) ([]types.AddMealRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	for i := range seed.Meals {
		if seed.Meals[i].Ingredients == nil {
			seed.Meals[i].Ingredients = []types.IngredientRequest{}
		}
		if err := seed.Meals[i].Validate(); err != nil {
			return nil, fmt.Errorf("meal %d (%q): %w", i, seed.Meals[i].Mealname, err)
		}
	}
	return seed.Meals, nil
}

func seedMeals(ctx context.Context, svc service.IMealService, meals []types.AddMealRequest) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	for i := range meals {
		id, err := svc.AddMeal(ctx, &meals[i])
		if err != nil {
			return i, fmt.Errorf("failed to add meal %q: %w", meals[i].Mealname, err)
		}
		log.Printf("Seeded meal %d: %s", id, meals[i].Mealname)
	}
	return len(meals), nil
}
