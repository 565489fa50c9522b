// Package config provides configuration for the gapbuf tools.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (applied by cmd)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← GAPBUF_BUFFER_INITIAL_GAP=64
//	├─────────────────────────────┤
//	│  2. Config File             │  ← gapbuf.toml or gapbuf.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Each layer is loaded by the loader sub-package into a map[string]any;
// the maps are deep-merged and decoded into a typed Config.
//
// # Basic Usage
//
//	cfg, err := config.Load("gapbuf.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gb, err := gapbuffer.New(cfg.BufferOptions()...)
//
// # File Format
//
//	[buffer]
//	initialGap = 20
//	growthDivisor = 64
//	maxCapacity = 0      # 0 = unlimited
//
//	[logging]
//	level = "info"
//
//	[script]
//	instructionLimit = 10000000
//	timeout = "5s"
//
// script.instructionLimit caps the number of gb.* calls one script run may
// make; script.timeout caps its wall-clock time. Zero disables either.
package config
