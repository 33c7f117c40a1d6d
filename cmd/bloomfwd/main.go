// Command bloomfwd is a thin CLI wrapper around the bloomfwd core: it
// loads a distribution file to size the table, loads one or more
// prefix files to populate it (running the raw combined file through
// the offline CPE preprocessor itself, since nothing else in this
// repository does), then replays an address file through LookupBatch,
// logging elapsed time the way the teacher's benchmarking commands do.
package main

import (
	"log"
	"os"
	"time"

	"github.com/lucch/bloomfwd"
	"github.com/lucch/bloomfwd/cpe"
	"github.com/lucch/bloomfwd/hashfunc"
	"github.com/lucch/bloomfwd/internal/ingest"
	"github.com/spf13/pflag"
)

func main() {
	log.SetFlags(log.Lmicroseconds)

	var (
		distPath  = pflag.StringP("d", "d", "", "distribution file (required)")
		dlaPath   = pflag.String("dla", "", "DLA-class prefix file (already CPE-expanded)")
		g1Path    = pflag.String("g1", "", "class-1 (/24) prefix file (already CPE-expanded)")
		g2Path    = pflag.String("g2", "", "class-0 (/32) prefix file (already CPE-expanded)")
		combined  = pflag.StringP("p", "p", "", "combined prefix file, used instead of -dla/-g1/-g2")
		addrPath  = pflag.StringP("r", "r", "", "address file (required)")
		repeats   = pflag.IntP("n", "n", 1, "number of times to replay the address file")
		batchSize = pflag.IntP("b", "b", 16, "lookup batch size, a multiple of 16")
		stride    = pflag.Uint8("s", 20, "DLA stride")
	)
	pflag.Parse()

	if err := run(*distPath, *dlaPath, *g1Path, *g2Path, *combined, *addrPath, *repeats, *batchSize, *stride); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(distPath, dlaPath, g1Path, g2Path, combined, addrPath string, repeats, batchSize int, stride uint8) error {
	if distPath == "" || addrPath == "" {
		return fatalUsage("both -d (distribution file) and -r (address file) are required")
	}
	if batchSize <= 0 || batchSize%16 != 0 {
		return fatalUsage("-b must be a positive multiple of 16")
	}

	distFile, err := os.Open(distPath)
	if err != nil {
		return err
	}
	defer distFile.Close()

	dist, err := ingest.Distribution(distFile)
	if err != nil {
		return err
	}

	sizes := make([]bloomfwd.ClassSize, 0, len(dist))
	for _, d := range dist {
		if d.Length <= stride {
			continue // covered by the DLA tier, not a hash-table class
		}
		sizes = append(sizes, bloomfwd.ClassSize{Length: d.Length, N: d.Quantity, P: 0.01})
	}

	table := bloomfwd.NewIPv4Table(stride, hashfunc.Murmur3Lib{})
	if err := table.Size(sizes); err != nil {
		return err
	}

	start := time.Now()
	var loaded int
	if combined != "" {
		// -p is a raw, unexpanded prefix file: run it through the
		// offline CPE preprocessor ourselves before storing, since no
		// external tool produced the per-class streams for us.
		n, err := loadCombinedRaw(table, combined, stride)
		if err != nil {
			return err
		}
		loaded += n
	}
	for _, path := range []string{dlaPath, g1Path, g2Path} {
		if path == "" {
			continue
		}
		n, err := loadPrefixes(table, path)
		if err != nil {
			return err
		}
		loaded += n
	}
	log.Printf("loaded %d prefixes in %v", loaded, time.Since(start))

	if err := table.Finalize(); err != nil {
		return err
	}

	addrFile, err := os.Open(addrPath)
	if err != nil {
		return err
	}
	defer addrFile.Close()

	addrs, err := ingest.AddressesV4(addrFile)
	if err != nil {
		return err
	}

	start = time.Now()
	var hits int
	for rep := 0; rep < repeats; rep++ {
		for i := 0; i < len(addrs); i += batchSize {
			end := min(i+batchSize, len(addrs))
			_, found, err := table.LookupBatch(addrs[i:end])
			if err != nil {
				return err
			}
			for _, f := range found {
				if f {
					hits++
				}
			}
		}
	}
	elapsed := time.Since(start)
	log.Printf("resolved %d addresses x %d repeats in %v (%d hits)", len(addrs), repeats, elapsed, hits)

	return nil
}

func loadPrefixes(table *bloomfwd.Table[uint32], path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	records, err := ingest.PrefixesV4(f)
	if err != nil {
		return 0, err
	}

	for _, r := range records {
		p := bloomfwd.Prefix[uint32]{Key: r.Key, Length: r.Length, NextHop: uint64(r.NextHop)}
		if err := table.StorePrefix(p); err != nil {
			return 0, err
		}
	}
	return len(records), nil
}

// loadCombinedRaw parses a raw, unexpanded prefix file and feeds it
// through cpe.ExpandIPv4 before storing, the g1 class pinned to
// length 24 per spec.md's two-class IPv4 scheme (class 0 = /32,
// class 1 = /24).
func loadCombinedRaw(table *bloomfwd.Table[uint32], path string, strideDLA uint8) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	records, err := ingest.PrefixesV4(f)
	if err != nil {
		return 0, err
	}

	raw := make([]cpe.Prefix4, len(records))
	for i, r := range records {
		raw[i] = cpe.Prefix4{Key: r.Key, Length: r.Length, NextHop: uint64(r.NextHop)}
	}

	dla, g1, g2, def := cpe.ExpandIPv4(raw, strideDLA, 24)

	var loaded int
	for _, bucket := range [][]cpe.Prefix4{dla, g1, g2, def} {
		for _, p := range bucket {
			if err := table.StorePrefix(cpeToTablePrefix(p)); err != nil {
				return loaded, err
			}
			loaded++
		}
	}
	return loaded, nil
}

// cpeToTablePrefix converts a cpe.Prefix4's compact, right-aligned
// key (its Length significant bits, zero-extended below bit Length)
// into the left-aligned, full-width canonical form bloomfwd.Prefix
// expects (top Length bits meaningful, the rest cleared): a plain
// left shift by (32 - Length). Length 0 (the default route) shifts by
// 32, which Go defines as zero for an unsigned operand, matching the
// fact that the default route's key is never examined.
func cpeToTablePrefix(p cpe.Prefix4) bloomfwd.Prefix[uint32] {
	return bloomfwd.Prefix[uint32]{
		Key:     p.Key << (32 - p.Length),
		Length:  p.Length,
		NextHop: p.NextHop,
	}
}

func fatalUsage(msg string) error {
	pflag.Usage()
	return &usageError{msg: msg}
}

type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }
