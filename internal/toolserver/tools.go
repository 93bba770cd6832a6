package toolserver

import (
	"github.com/torosent/goku/internal/config"
	"github.com/torosent/goku/internal/metrics"
)

// Arguments are the inputs shared by every benchmark tool.
type Arguments struct {
	Target   string `json:"target" jsonschema:"the target url to perform the benchmarking, Ex. http://localhost:3000/"`
	Clients  int    `json:"clients" jsonschema:"the number of concurrent clients to use, Ex. 100"`
	Requests int    `json:"requests" jsonschema:"the number of total requests to perform, Ex. 10000"`
}

// Settings builds an iteration run with the CLI defaults for everything the
// tools do not expose.
func (a Arguments) Settings() *config.Settings {
	s := config.NewSettings(a.Target)
	s.Clients = a.Clients
	s.Requests = a.Requests
	return s
}

type tool struct {
	name        string
	description string
	stat        func(*metrics.Report) int64
}

var tools = []tool{
	{
		name:        "percentile_95",
		description: "show the percentile 95 of the latency for given target, clients and requests",
		stat:        func(r *metrics.Report) int64 { return r.Quantile(0.95) },
	},
	{
		name:        "percentile_99",
		description: "show the percentile 99 of the latency for given target, clients and requests",
		stat:        func(r *metrics.Report) int64 { return r.Quantile(0.99) },
	},
	{
		name:        "min",
		description: "show the min request time of the latency for given target, clients and requests",
		stat:        (*metrics.Report).Min,
	},
	{
		name:        "max",
		description: "show the max request time of the latency for given target, clients and requests",
		stat:        (*metrics.Report).Max,
	},
}
