package metrics

import (
	"runtime"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kgraph/katom"
	"github.com/birdayz/kgraph/knode"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type nopState struct{}

func (nopState) Reactions() []knode.Reaction {
	return []knode.Reaction{func(katom.Value, knode.Outputs) {}}
}

func TestInterceptorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	assert.NoError(t, err)

	sinkTmpl := knode.NewTemplate("sink", []katom.Kind{katom.Usize}, nil, func() knode.State { return nopState{} })
	live := sinkTmpl.Create()

	link := knode.NewLink(katom.Usize)
	link.Intercept(m.Interceptor())
	link.AddSink(knode.InParams(live)[0])
	func() {
		gone := sinkTmpl.Create()
		link.AddSink(knode.InParams(gone)[0])
	}()
	runtime.GC()

	link.Update(katom.UsizeValue(1))
	link.Update(katom.UsizeValue(2))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Updates(katom.Usize)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Deliveries(katom.Usize)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Dangling(katom.Usize)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Updates(katom.Bool)))
	runtime.KeepAlive(live)
}

func TestNewSharesRegisteredCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	assert.NoError(t, err)
	second, err := New(reg)
	assert.NoError(t, err)

	link := knode.NewLink(katom.Bool)
	link.Intercept(first.Interceptor(), second.Interceptor())
	link.Update(katom.BoolValue(true))

	assert.Equal(t, 2.0, testutil.ToFloat64(first.Updates(katom.Bool)))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "kgraph_link_updates_total"))
}
