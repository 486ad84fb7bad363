package main

import (
	"log"
	"os"

	"queueCtl/cmd"
	"queueCtl/internal/admin"
	"queueCtl/internal/config"
	"queueCtl/internal/logsink"
	"queueCtl/internal/store"
	"queueCtl/internal/supervisor"
)

func main() {
	cfg := config.Load()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	sink := logsink.New(cfg.LogDir)
	logger := log.New(os.Stderr, "", log.LstdFlags)
	sup := supervisor.New(st, sink, logger)
	api := admin.New(st, sup)

	os.Exit(cmd.Execute(api, sup))
}
