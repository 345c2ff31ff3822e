package main

import (
	"github.com/pkg/profile"
)

var stopProfile func()

// startProfiling writes a CPU profile, or a heap profile when heap is set, to the
// current directory until stopProfiling is called.
func startProfiling(heap bool) {
	opts := []func(*profile.Profile){profile.ProfilePath("."), profile.NoShutdownHook}
	if heap {
		opts = append(opts, profile.MemProfileHeap)
	}
	p := profile.Start(opts...)
	stopProfile = p.Stop
	log(LogCatgApp, "Profiling started\n")
}

func stopProfiling() {
	if stopProfile != nil {
		stopProfile()
		stopProfile = nil
	}
}
