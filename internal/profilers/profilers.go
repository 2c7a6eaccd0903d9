// Package profilers implement helper functions to set up profiling for the batch programs.
//
// If linked, it will install the profiler flags: -prof (HTTP pprof port), -cpu_profile and
// -heap_profile (output files).
//
// It only supports debugging, and otherwise has no functionality for the game.
package profilers

import (
	"context"
	"flag"
	"fmt"
	"k8s.io/klog/v2"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"
	"runtime/pprof"
)

var (
	flagProfiler    = flag.Int("prof", 0, "If > 0, serves the HTTP profiler on this port and keeps the program alive at the end.")
	flagCPUProfile  = flag.String("cpu_profile", "", "write cpu profile to `file`")
	flagHeapProfile = flag.String("heap_profile", "", "write heap profile to `file` on exit")
	profilerAddr    string

	// globalCtx is set on the call to Setup.
	globalCtx = context.Background()
)

// Setup starts the HTTP (flag -prof) and CPU profilers (flag -cpu_profile), if they were configured.
// You should follow with a deferred call to OnQuit.
func Setup(ctx context.Context) {
	globalCtx = ctx
	if httpProfilerEnabled() {
		setupHTTPProfiler()
	}
	if *flagCPUProfile != "" {
		startCPUProfile(*flagCPUProfile)
	}
}

// OnQuit should be called before the exit of the main() function, typically this is setup as a deferred call
// just after Setup.
func OnQuit() {
	if *flagCPUProfile != "" {
		pprof.StopCPUProfile()
	}
	if *flagHeapProfile != "" {
		if err := writeHeapProfile(*flagHeapProfile); err != nil {
			klog.Errorf("Failed to write heap profile: %+v", err)
		}
	}
	if httpProfilerEnabled() {
		httpProfilerOnQuit()
	}
}

// httpProfilerEnabled requires a real port: port 0 would bind to a random one and leave
// OnQuit waiting for an interrupt.
func httpProfilerEnabled() bool {
	return *flagProfiler > 0
}

// startCPUProfile creates the file and starts the CPU profiling there.
func startCPUProfile(path string) {
	f, err := os.Create(path)
	if err != nil {
		klog.Fatal("could not create CPU profile: ", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		klog.Fatal("could not start CPU profile: ", err)
	}
}

// writeHeapProfile garbage collects and writes the heap profile to path.
func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}

// setupHTTPProfiler starts the profiler server in the background.
func setupHTTPProfiler() {
	profilerAddr = fmt.Sprintf("localhost:%d", *flagProfiler)
	fmt.Printf("Starting profiler on %s/debug/pprof\n", profilerAddr)
	fmt.Printf("- You can access it with: $ go tool pprof %s/debug/pprof/heap\n", profilerAddr)
	fmt.Printf("- Program will be kept alive on end, you will have to interrupt it (Ctrl+C) to exit\n")
	go func() {
		klog.Fatal(http.ListenAndServe(profilerAddr, nil))
	}()
}

// httpProfilerOnQuit keeps the program alive until interrupted, so the profile can still
// be read.
func httpProfilerOnQuit() {
	// Don't freeze on panic.
	if err := recover(); err != nil {
		panic(err)
	}
	if globalCtx.Err() != nil {
		// Already interrupted.
		return
	}

	// Garbage collect, to see if there is anything leaking.
	for range 10 {
		runtime.GC()
	}
	fmt.Printf("- Program finished: kept alive with profiler opened at %s/debug/pprof\n", profilerAddr)
	fmt.Printf("- Interrupt (Ctrl+C) to exit\n")
	<-globalCtx.Done()
	fmt.Printf("... exiting ...\n")
}
