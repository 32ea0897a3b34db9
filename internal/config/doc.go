// Package config provides the experiment configuration of relayctl.
//
// An Experiment is assembled from layers, later layers overriding earlier
// ones key by key:
//
//  1. Built-in defaults (GetDefaultConfig)
//  2. User profile (~/.config/relayctl/profile.yaml)
//  3. Project profile (./.relayctl/profile.yaml)
//  4. Explicit profile (--profile <file>)
//  5. Command line flags that were set explicitly
//
// Profiles are YAML documents with the same shape as Experiment:
//
//	jar: app.jar
//	shell: ssh
//	workDir: /home/me/bench
//	node:
//	  mainClass: Main
//	  xmx: 4
//	relay:
//	  noGC: true
//	  xms: 8
//	timing:
//	  nodeSettle: 10s
//	  stagger: 200ms
//	  duration: 5m
//
// Heap sizes are whole GiB. Durations use Go duration syntax.
//
// Once validated the Experiment is treated as a read-only snapshot; callers
// pass it by value and never modify it during a run.
package config
