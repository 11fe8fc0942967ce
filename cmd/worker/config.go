package main

import (
	"log"

	"library-backend/pkg/container"
)

// WorkerConfig holds the Redis connection settings for the worker.
type WorkerConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func loadWorkerConfig(c *container.Container) *WorkerConfig {
	cfg := &WorkerConfig{
		RedisAddr:     c.Config.Redis.Host,
		RedisPassword: c.Config.Redis.Password,
		RedisDB:       c.Config.Redis.DB,
	}

	log.Printf("worker redis: %s (db %d)", cfg.RedisAddr, cfg.RedisDB)

	return cfg
}
