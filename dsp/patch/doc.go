// Package patch loads modulation graphs from JSON.
//
// A patch lists nodes by ID. Each node names its kind, its upstream inputs,
// construction arguments, and slot parameters. A parameter is either a
// number or a reference to another node's output:
//
//	{
//	  "output": "comb",
//	  "nodes": [
//	    {"id": "osc", "type": "oscillator", "params": {"frequency": 220}},
//	    {"id": "lfo", "type": "jitter", "params": {"amplitude": 0.5}},
//	    {"id": "comb", "type": "comb", "inputs": ["osc"],
//	     "args": {"loopDuration": 0.05},
//	     "params": {"reverbDuration": {"node": "lfo", "channel": "left"}}}
//	  ]
//	}
//
// Nodes are built in dependency order, so the listing order is free.
package patch
