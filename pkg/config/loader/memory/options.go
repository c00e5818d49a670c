package memory

import (
	"github.com/basepulse/pulse-agent/pkg/config/loader"
	"github.com/basepulse/pulse-agent/pkg/config/reader"
	"github.com/basepulse/pulse-agent/pkg/config/source"
)

func WithSource(s source.Source) loader.Option {
	return func(o *loader.Options) {
		o.Source = append(o.Source, s)
	}
}

// WithReader sets the config reader
func WithReader(r reader.Reader) loader.Option {
	return func(o *loader.Options) {
		o.Reader = r
	}
}
