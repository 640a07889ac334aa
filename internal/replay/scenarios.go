package replay

import "time"

// Scenario is a named timeline with the delays it is meant to run under.
type Scenario struct {
	Name     string
	Timeline string
	Config   Config
}

// Scenarios are the canned runs cmd/replay shows when given no timeline.
func Scenarios() []Scenario {
	d := 300 * time.Millisecond
	return []Scenario{
		{
			Name:     "re-render before the delay",
			Timeline: "first@0,second@0",
			Config:   Config{Debounce: d, Throttle: d},
		},
		{
			Name:     "burst inside one window",
			Timeline: "first@0,second@100,third@200",
			Config:   Config{Debounce: d, Throttle: d},
		},
		{
			Name:     "single change settles after the quiet period",
			Timeline: "a@0,b@500",
			Config:   Config{Debounce: d, Throttle: d},
		},
		{
			Name:     "delay change applies to the next schedule",
			Timeline: "a@0,b@100,c@150/50",
			Config:   Config{Debounce: d, Throttle: d},
		},
		{
			Name:     "zero delay",
			Timeline: "a@0,b@10,c@20",
			Config:   Config{},
		},
	}
}
