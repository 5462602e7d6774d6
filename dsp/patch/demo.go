package patch

// Demo returns the built-in patch: a jitter line modulates the reverb time
// of a comb filter fed by an oscillator, and a second jitter pans the result.
func Demo() *Patch {
	return &Patch{
		Output: "pan",
		Nodes: []NodeSpec{
			{
				ID:   "osc",
				Type: "oscillator",
				Params: map[string]ParamSpec{
					"frequency": {Value: 220},
					"amplitude": {Value: 0.4},
				},
			},
			{
				ID:   "lfo",
				Type: "jitter",
				Params: map[string]ParamSpec{
					"amplitude":        {Value: 2},
					"minimumFrequency": {Value: 0.5},
					"maximumFrequency": {Value: 3},
				},
			},
			{
				ID:     "comb",
				Type:   "comb",
				Inputs: []string{"osc"},
				Args:   map[string]float64{"loopDuration": 0.05},
				Params: map[string]ParamSpec{
					"reverbDuration": {Node: "lfo"},
				},
			},
			{
				ID:   "drift",
				Type: "jitter",
				Params: map[string]ParamSpec{
					"amplitude":        {Value: 0.8},
					"minimumFrequency": {Value: 0.2},
					"maximumFrequency": {Value: 1},
				},
			},
			{
				ID:     "pan",
				Type:   "panner",
				Inputs: []string{"comb"},
				Params: map[string]ParamSpec{
					"pan": {Node: "drift", Channel: "left"},
				},
			},
		},
	}
}
