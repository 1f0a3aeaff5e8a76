// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package util

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const mib = 1024 * 1024

func Stats() func() {
	return func() {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		log.Debug().Msgf("Alloc: %d MB, TotalAlloc: %d MB, Requested: %d MB",
			ms.Alloc/mib, ms.TotalAlloc/mib, ms.Sys/mib)
		log.Debug().Msgf("Mallocs: %d, Frees: %d, GC: %d", ms.Mallocs, ms.Frees, ms.NumGC)
		log.Debug().Msgf("HeapAlloc: %d MB, HeapSys: %d MB, HeapIdle: %d MB",
			ms.HeapAlloc/mib, ms.HeapSys/mib, ms.HeapIdle/mib)
		log.Debug().Msgf("HeapObjects: %d", ms.HeapObjects)
	}
}

func ApplyCliSettings(verbose bool, profile bool, pprofPort uint16) {
	if verbose {
		log.Warn().Msgf("Verbosity up")
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if profile {
		log.Info().Msgf("Profiling is enabled for this session. Server will listen on port %d", pprofPort)
		go func() {
			if err := http.ListenAndServe(fmt.Sprintf(":%d", pprofPort), nil); err != nil {
				log.Error().Err(err).Msgf("Error starting profiling server on port %d", pprofPort)
				return
			}
		}()
	}
}

// CheckRam verifies that items 64-bit values fit in the available memory. Unless skipWait
// is set it leaves a few seconds to cancel a long process.
func CheckRam(items uint64, skipWait bool) error {
	required := items * 8
	if memStat, err := mem.VirtualMemory(); err == nil {
		log.Debug().Msgf("System has %.2f MiB of RAM available", float64(memStat.Available)/mib)
		if required > memStat.Available {
			return fmt.Errorf("your system does not have the minimum required RAM (%d MiB) to execute this process", required/mib)
		}
	} else {
		log.Warn().Msgf("Estimated memory use for %d items %d MiB", items, required/mib)
		log.Warn().Msgf("This process will cause disk swapping and general slowness if your "+
			"current system memory is not at least %d MiB.", required/mib)
	}

	if !skipWait {
		log.Info().Msgf("^C now to stop the process.")
		time.Sleep(5 * time.Second)
	}

	return nil
}

// CheckDiskSpace fails when the partition holding fileName has less than required bytes
// free. Unknown partitions only log.
func CheckDiskSpace(fileName string, required uint64) error {
	abs, err := filepath.Abs(fileName)
	if err != nil {
		return err
	}

	parts, err := disk.Partitions(false)
	if err != nil {
		log.Debug().Err(err).Msgf("Error getting current storage sizes")
		return nil
	}

	// The longest matching mount point is the partition holding the file.
	mount := ""
	for _, part := range parts {
		if strings.HasPrefix(abs, part.Mountpoint) && len(part.Mountpoint) > len(mount) {
			mount = part.Mountpoint
		}
	}
	if mount == "" {
		return nil
	}

	usage, err := disk.Usage(mount)
	if err != nil {
		log.Debug().Err(err).Msgf("Error getting current storage sizes")
		return nil
	}

	log.Debug().Msgf("%s has %.2f MiB free", mount, float64(usage.Free)/mib)
	if required > usage.Free {
		return fmt.Errorf("drive %s does not have sufficient space free (%d MiB)", mount, required/mib)
	}

	return nil
}

// CacheBudget is fraction of the available memory, capped at ceiling bytes. When memory
// cannot be read the ceiling is used.
func CacheBudget(fraction float64, ceiling int64) int64 {
	memStat, err := mem.VirtualMemory()
	if err != nil {
		log.Debug().Err(err).Msg("Error reading available memory")
		return ceiling
	}

	budget := int64(float64(memStat.Available) * fraction)
	if budget <= 0 || budget > ceiling {
		return ceiling
	}
	return budget
}

// ToScreamingSnakeCase turns Go field names into environment variable style names:
// TLSCert becomes TLS_CERT. Space separated lists are converted word by word.
func ToScreamingSnakeCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = screamingSnake(w)
	}
	return strings.Join(words, " ")
}

func screamingSnake(s string) string {
	r := []rune(s)
	var b strings.Builder
	for i, c := range r {
		if i > 0 && unicode.IsUpper(c) {
			prevLower := unicode.IsLower(r[i-1]) || unicode.IsDigit(r[i-1])
			nextLower := i+1 < len(r) && unicode.IsLower(r[i+1])
			if prevLower || (unicode.IsUpper(r[i-1]) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToUpper(c))
	}
	return b.String()
}
