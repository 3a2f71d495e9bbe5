package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/qs3c/blog_server/config"
	"github.com/qs3c/blog_server/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		log.Printf("Server error: %v", err)
		os.Exit(1)
	}
}

// run 返回后所有资源都已释放
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	env := fs.String("env", "", "Environment profile: dev, testing, prod (default $APP_ENV)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load(*configPath, *env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	return a.Run(ctx)
}
