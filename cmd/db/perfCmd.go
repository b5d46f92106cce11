package db

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/rediDB/cmd/util"
	"github.com/ValentinKolb/rediDB/lib/record"
	"github.com/ValentinKolb/rediDB/rpc/common"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for rediDB servers",
		Long:    "Runs add, get, query, edit and mixed benchmarks against a scratch database. Records written by the benchmarks are deleted afterwards, the empty database remains.",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfMarker      = "__perf"
	perfNumThreads  = 10
	perfRecordCount = 100
	perfSkip        = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. add,edit)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "records"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many records are stored in the database for the read benchmarks"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfRecordCount = max(viper.GetInt("records"), 1)
	perfNumThreads = max(viper.GetInt("threads"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func run(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for rediDB servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Records: %d\n", perfRecordCount)
	fmt.Println()

	// every run works on its own scratch database
	database := fmt.Sprintf("%s-%s", perfMarker, uuid.NewString())
	if err := rpcStore.CreateCollection(database); err != nil {
		return fmt.Errorf("failed to create scratch database: %w", err)
	}
	fmt.Printf("using database %s\n", database)

	fmt.Println("staring tests...")

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	addResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("add") {
			return
		}

		b.Cleanup(func() { cleanup(database, "add") })

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				err := rpcStore.Append(database, perfRecord("add", counter))
				if err != nil {
					log.Printf("(add) - error adding record: %v\n", err)
				}
				counter++
			}
		})
	})

	results["add"] = addResult
	printResult("add", addResult)

	getResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("get") {
			return
		}

		seed(database, "get")
		b.Cleanup(func() { cleanup(database, "get") })

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_, err := rpcStore.Get(database)
				if err != nil {
					log.Printf("(get) - error getting database: %v\n", err)
				}
			}
		})
	})

	results["get"] = getResult
	printResult("get", getResult)

	queryResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("query") {
			return
		}

		seed(database, "query")
		b.Cleanup(func() { cleanup(database, "query") })

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				_, err := rpcStore.FindAll(database, perfQuery("query", counter))
				if err != nil {
					log.Printf("(query) - error querying database: %v\n", err)
				}
				counter++
			}
		})
	})

	results["query"] = queryResult
	printResult("query", queryResult)

	editResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("edit") {
			return
		}

		seed(database, "edit")
		b.Cleanup(func() { cleanup(database, "edit") })

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				err := rpcStore.MutateMatching(database, perfQuery("edit", counter), record.Record{"value": counter})
				if err != nil {
					log.Printf("(edit) - error editing records: %v\n", err)
				}
				counter++
			}
		})
	})

	results["edit"] = editResult
	printResult("edit", editResult)

	mixedUsageResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		seed(database, "mixed")
		b.Cleanup(func() { cleanup(database, "mixed") })

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				var err error
				switch counter % 4 {
				case 0: // add
					err = rpcStore.Append(database, perfRecord("mixed", counter))
				case 1: // query
					_, err = rpcStore.FindAll(database, perfQuery("mixed", counter))
				case 2: // edit
					err = rpcStore.MutateMatching(database, perfQuery("mixed", counter), record.Record{"value": counter})
				case 3: // get
					_, err = rpcStore.Get(database)
				}

				if err != nil {
					log.Printf("(mixed) - error performing operation (%d): %v\n", counter%4, err)
				}
				counter++
			}
		})
	})

	results["mixed"] = mixedUsageResult
	printResult("mixed", mixedUsageResult)

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// perfRecord returns the i-th record of a benchmark. Records of the same
// benchmark share the marker field so they can be deleted together.
func perfRecord(test string, i int) record.Record {
	return record.Record{
		perfMarker: test,
		"key":      i % perfRecordCount,
		"value":    i,
	}
}

// perfQuery returns a query that matches the records with the i-th key
func perfQuery(test string, i int) record.Query {
	return record.Query{
		perfMarker: test,
		"key":      i % perfRecordCount,
	}
}

// seed fills the database with perfRecordCount records for a benchmark
func seed(database, test string) {
	for i := 0; i < perfRecordCount; i++ {
		if err := rpcStore.Append(database, perfRecord(test, i)); err != nil {
			log.Printf("(%s) - error seeding record: %v\n", test, err)
		}
	}
}

// cleanup removes all records written by a benchmark
func cleanup(database, test string) {
	if err := rpcStore.DeleteMatching(database, record.Query{perfMarker: test}); err != nil {
		log.Printf("(%s) - error deleting records: %v\n", test, err)
	}
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Endpoint", "TimeoutSec", "Serializer", "Transport",
		"Threads", "Records",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			config.Endpoint,
			strconv.Itoa(config.TimeoutSecond),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfRecordCount),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
