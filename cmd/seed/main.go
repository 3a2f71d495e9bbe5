package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/qs3c/blog_server/config"
	"github.com/qs3c/blog_server/internal/database"
	"github.com/qs3c/blog_server/internal/pkg/logger"
	"github.com/qs3c/blog_server/internal/seed"
)

var (
	configPath string
	env        string
	opts       = seed.DefaultOptions()
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the blog database with fake data",
	Long: `Populate the blog database with roles, users with profiles, posts,
threaded comments and ratings.

Examples:
  seed --env dev                      # Default amounts, clears existing data
  seed --users 100 --posts 300        # Larger data set
  seed --clean=false --users 5        # Append to existing data`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to config file")
	rootCmd.Flags().StringVar(&env, "env", "", "Environment profile: dev, testing, prod (default $APP_ENV)")
	rootCmd.Flags().IntVar(&opts.Users, "users", opts.Users, "Number of users to create")
	rootCmd.Flags().IntVar(&opts.Posts, "posts", opts.Posts, "Number of posts to create")
	rootCmd.Flags().IntVar(&opts.Comments, "comments", opts.Comments, "Number of comments to create, about half are replies")
	rootCmd.Flags().IntVar(&opts.RatingsPerPost, "ratings", opts.RatingsPerPost, "Ratings per post")
	rootCmd.Flags().BoolVar(&opts.Clean, "clean", opts.Clean, "Clear all tables before seeding")
	rootCmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed, 0 for random")
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath, env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to seed the %s environment", cfg.Env)
	}

	log := logger.New(cfg.Log)

	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	summary, err := seed.NewSeeder(db, log).Run(ctx, opts)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d roles, %d users, %d posts, %d comments, %d ratings\n",
		summary.Roles, summary.Users, summary.Posts, summary.Comments, summary.Ratings)
	fmt.Printf("All users share the password: %s\n", seed.DefaultPassword)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
