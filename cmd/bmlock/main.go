// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command bmlock is the benchmark harness CLI:
//
//	bm_lock [-a <mask>] [-l <laps>] [-o <objs>] [-t <threads>] [-v] <locktype>
//
// No example repo in the reference corpus pulls in a CLI framework
// (cobra, kingpin, urfave/cli); every flag-parsing need observed there
// is met with the standard library's flag package, so this command
// does the same rather than introducing a dependency the corpus never
// reaches for.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"code.hybscloud.com/lockbench/bench"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("bm_lock", flag.ContinueOnError)
	fs.SetOutput(stderr)

	affinityStr := fs.String("a", "", "CPU affinity mask; hex if prefixed 0x, else base-2 (default: all ones)")
	laps := fs.Uint64("l", 1_000_000, "laps per thread (>=1)")
	objects := fs.Int("o", 0, "number of lock objects (>=1, default max(1, threads/2))")
	threads := fs.Int("t", 2, "thread count, 1..MAXTHREADS")
	verbose := fs.Bool("v", false, "verbose")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(stderr, "bm_lock: expected exactly one <locktype> argument")
		return 1
	}

	lt, err := bench.ParseLockType(rest[0])
	if err != nil {
		fmt.Fprintln(stderr, "bm_lock:", err)
		return 1
	}

	if *objects == 0 {
		*objects = max(1, *threads/2)
	}

	affinity, err := parseAffinity(*affinityStr, *threads)
	if err != nil {
		fmt.Fprintln(stderr, "bm_lock:", err)
		return 1
	}

	cfg := bench.Config{
		LockType: lt,
		Laps:     *laps,
		Objects:  *objects,
		Threads:  *threads,
		Affinity: affinity,
		Verbose:  *verbose,
	}

	res, err := bench.Run(cfg, bench.MonotonicClock{}, bench.UnixAffinity{}, bench.UnixFIFOScheduler{})
	if err != nil {
		fmt.Fprintln(stderr, "bm_lock:", err)
		return 1
	}

	printReport(stdout, res, *verbose)
	return 0
}

// parseAffinity parses -a: hex when prefixed "0x", else base-2; an
// empty mask defaults to all ones across the thread count.
func parseAffinity(s string, threads int) (uint64, error) {
	if s == "" {
		if threads >= 64 {
			return math.MaxUint64, nil
		}
		return (uint64(1) << uint(threads)) - 1, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hex affinity mask %q: %w", s, err)
		}
		return v, nil
	}
	v, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid binary affinity mask %q: %w", s, err)
	}
	return v, nil
}

// printReport writes the per-thread and summary output lines.
func printReport(w *os.File, res bench.Result, verbose bool) {
	if verbose {
		for _, t := range res.Workers {
			fmt.Fprintf(w, "%d: numfailrd %d, numfailwr %d, nummultrd %d, numops %d\n",
				t.TID, t.NumFailRd, t.NumFailWr, t.NumMultRd, t.NumOps)
		}
	}
	fmt.Fprintf(w, "duration %.4fs, fairness %.6f, ops_per_sec %.2f lock ops/second, ns_per_op %.2f nanoseconds/lock op\n",
		res.Duration.Seconds(), res.Fairness, res.OpsPerSec, res.NsPerOp)
}
