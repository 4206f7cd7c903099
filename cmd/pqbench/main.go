// Command pqbench drives the pq.Queue under a producer/consumer
// workload and reports throughput and pop-latency percentiles. It is
// the Go re-expression of the benchmark harness this package's
// algorithms were ported from: same producer/consumer shape, same
// latency percentiles and histogram, rebuilt around goroutines,
// log/slog, and a lock-free sharded ring for latency collection
// instead of a per-thread std::vector.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	ring "github.com/randomizedcoder/go-lock-free-ring"

	"github.com/jayshah2111/lock-free-concurrent-pq/cmd/pqbench/config"
	"github.com/jayshah2111/lock-free-concurrent-pq/pq"
)

func main() {
	producers := flag.Int("producers", 4, "number of producer goroutines")
	consumers := flag.Int("consumers", 4, "number of consumer goroutines")
	iterations := flag.Int("iters", 100_000, "pushes per producer")
	hazardCapacity := flag.Int("hazard-capacity", pq.DefaultDomainCapacity, "hazard slots in the queue's domain")
	latencyShards := flag.Int("latency-shards", 0, "shards in the pop-latency ring (0 = one per consumer)")
	configPath := flag.String("config", "", "optional JSON config file, validated against an embedded schema")
	flag.Parse()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			slog.Error("pqbench: failed to load config", "error", err)
			os.Exit(1)
		}
		if cfg.Producers > 0 {
			*producers = cfg.Producers
		}
		if cfg.Consumers > 0 {
			*consumers = cfg.Consumers
		}
		if cfg.Iterations > 0 {
			*iterations = cfg.Iterations
		}
		if cfg.HazardCapacity > 0 {
			*hazardCapacity = cfg.HazardCapacity
		}
		if cfg.LatencyShards > 0 {
			*latencyShards = cfg.LatencyShards
		}
	}

	if *latencyShards <= 0 {
		*latencyShards = max(*consumers, 1)
	}

	slog.Info("pqbench: starting",
		"producers", *producers,
		"consumers", *consumers,
		"iterations", *iterations,
		"hazardCapacity", *hazardCapacity,
		"latencyShards", *latencyShards,
	)

	domain := pq.NewDomain[int](*hazardCapacity)
	q := pq.New[int](func(a, b int) bool { return a < b }, domain)

	latencyCapacity := (*iterations) * (*producers) / max(*consumers, 1)
	if latencyCapacity < 1024 {
		latencyCapacity = 1024
	}
	latencies, err := ring.NewShardedRing(uint64(latencyCapacity), uint64(*latencyShards))
	if err != nil {
		slog.Error("pqbench: failed to build latency ring", "error", err)
		os.Exit(1)
	}

	var totalPushes, totalPops atomic.Int64
	var producersDone atomic.Bool

	var wg sync.WaitGroup
	wg.Add(*producers)
	for i := 0; i < *producers; i++ {
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for j := 0; j < *iterations; j++ {
				if err := q.Push(r.Int()); err != nil {
					slog.Error("pqbench: push failed", "error", err)
					return
				}
				totalPushes.Add(1)
			}
		}(time.Now().UnixNano() + int64(i))
	}

	var cwg sync.WaitGroup
	cwg.Add(*consumers)
	for i := 0; i < *consumers; i++ {
		go func(shard uint64) {
			defer cwg.Done()
			lastValue := -1 << 62
			for !producersDone.Load() || !q.Empty() {
				start := time.Now()
				v, ok := q.Pop()
				if !ok {
					runtime.Gosched()
					continue
				}
				elapsed := int(time.Since(start).Nanoseconds())
				for !latencies.Write(shard, elapsed) {
					runtime.Gosched()
				}
				totalPops.Add(1)
				if v < lastValue {
					slog.Error("pqbench: monotonicity violated", "value", v, "previous", lastValue)
					os.Exit(1)
				}
				lastValue = v
			}
		}(uint64(i) % uint64(*latencyShards))
	}

	benchStart := time.Now()
	wg.Wait()
	producersDone.Store(true)
	cwg.Wait()
	elapsed := time.Since(benchStart)

	ops := totalPushes.Load() + totalPops.Load()
	throughput := float64(ops) / elapsed.Seconds()
	fmt.Printf("Throughput: %.0f ops/sec\n", throughput)

	var pops []int64
	for {
		v, ok := latencies.TryRead()
		if !ok {
			break
		}
		pops = append(pops, int64(v.(int)))
	}
	sorted := sortedCopy(pops)

	fmt.Printf("Latency percentiles (pop) [ns]: p50=%d, p99=%d, p999=%d\n",
		percentile(sorted, 50), percentile(sorted, 99), percentile(sorted, 99.9))
	fmt.Print("Latency histogram (pop) [ns]:\n")
	fmt.Print(asciiHistogram(sorted, 10))

	stats := q.Metrics()
	slog.Info("pqbench: contention stats",
		"pushCASRetries", stats.PushCASRetries,
		"pushCASSuccesses", stats.PushCASSuccesses,
		"popCASRetries", stats.PopCASRetries,
		"fullyLinkedSpins", stats.FullyLinkedSpins,
	)
}
