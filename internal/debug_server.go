package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/shirou/gopsutil/process"
)

// StatsProvider supplies live runtime numbers (online users, typing
// sessions) for the debug dashboard.
type StatsProvider func() map[string]any

// StartDebugServer serves a JSON snapshot of the store and the process on
// a separate port. Never expose this outside the host; it exists for
// poking at a running instance during development.
func StartDebugServer(log *slog.Logger, db *badger.DB, port int, stats StatsProvider) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/stats", func(w http.ResponseWriter, r *http.Request) {
		snapshot := map[string]any{
			"keys":    countKeysByNamespace(db),
			"process": selfStats(),
		}
		if stats != nil {
			snapshot["runtime"] = stats()
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(snapshot)
	})

	go func() {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		log.Info("Debug server listening", "address", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Debug server stopped", "error", err)
		}
	}()
}

// countKeysByNamespace does a key-only scan and groups by the first key
// segment (msg, id, inbox, user, ...).
func countKeysByNamespace(db *badger.DB) map[string]int {
	counts := make(map[string]int)
	_ = db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			namespace, _, found := strings.Cut(key, ":")
			if !found {
				namespace = "other"
			}
			counts[namespace]++
		}
		return nil
	})
	return counts
}

func selfStats() map[string]any {
	stats := map[string]any{"pid": os.Getpid()}
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return stats
	}
	if mem, err := p.MemoryInfo(); err == nil {
		stats["rss_bytes"] = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		stats["cpu_percent"] = cpu
	}
	return stats
}
