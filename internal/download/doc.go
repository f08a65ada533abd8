// Package download provides the download orchestration logic for
// fetching archived snapshots from the Wayback Machine.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. List the snapshots of a target URL through the CDX index
//  2. Fetch each snapshot with a bounded number of downloads in flight
//  3. Persist each body into the output directory
//  4. Collect the URLs that failed
//
// # Basic Usage
//
//	manager := download.NewManager(settings, "brave-otter", func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Initialize(ctx, "example.com", wayback.MatchPrefix)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := manager.StartDownloads(ctx)
//	if _, err := download.WriteFailureReport("brave-otter", result.Failed); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// At most settings.Concurrency downloads hold a slot at once. Slots are
// handed out in snapshot order and released however a download ends,
// including a panic in a fetcher or persister. One failure never cancels
// the others.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// The callback may be invoked from several goroutines at once.
//
// # Failures
//
// Failed URLs end up in Result.Failed in the order they failed. Every URL
// in the run is counted exactly once, so
//
//	result.Succeeded + len(result.Failed) == result.Total
//
// WriteFailureReport saves Result.Failed as failed_urls.txt.
package download
