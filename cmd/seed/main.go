package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vigilia/patrol-ops/internal/config"
	"github.com/vigilia/patrol-ops/internal/repository"
	"github.com/vigilia/patrol-ops/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var weeks int

	flag.IntVar(&op, "op", 0, "operation to run (1: insert random users, 2: insert random shifts)")
	flag.IntVar(&n, "n", 5, "number of users to insert")
	flag.IntVar(&weeks, "weeks", 2, "number of weeks of shifts to insert")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("cannot create database pool", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open does not connect by itself, ping explicitly
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("cannot connect to the database", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("no operation given")
	case 1:
		if n <= 0 {
			slog.Error("please give a valid user count")
		} else {
			inserted := seed.SeedUsers(repo, n, cfg.Seed.User.Password, cfg.Email.UserDomain)
			slog.Info("users inserted", slog.Int("count", inserted))
		}
	case 2:
		if weeks <= 0 {
			slog.Error("please give a valid week count")
		} else {
			inserted := seed.SeedShifts(repo, weeks)
			slog.Info("shifts inserted", slog.Int("count", inserted))
		}
	default:
		slog.Error("unknown operation")
	}
}
