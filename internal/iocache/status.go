package iocache

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/huangsam/leaderboard/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintSnapshotStatus prints snapshot store status information.
func PrintSnapshotStatus(w io.Writer, status schema.SnapshotStatus) {
	_, _ = fmt.Fprintf(w, "Snapshot Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Snapshots: %d\n", status.TotalSnapshots)
	if status.TotalSnapshots > 0 {
		_, _ = fmt.Fprintf(w, "Last Snapshot ID: %d\n", status.LastSnapshotID)
		_, _ = fmt.Fprintf(w, "Last Snapshot: %s\n", status.LastSnapshotTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Oldest Snapshot: %s\n", status.OldestTime.Format(statusTimeLayout))
		_, _ = fmt.Fprintf(w, "Total Cards: %d\n", status.TotalCards)
	}
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
