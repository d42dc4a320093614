package main

import (
	"log/slog"

	"qmt-data/internal/slogx"
)

func init() {
	slog.SetDefault(slogx.NewDefault("info"))
}

func main() {
	Execute()
}
