package knode

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kgraph/katom"
)

func TestInterceptorChain(t *testing.T) {
	t.Run("outer to inner", func(t *testing.T) {
		var calls []string
		mk := func(name string) Interceptor {
			return func(l *Link, v katom.Value, next PublishFunc) Delivery {
				calls = append(calls, name+":before")
				d := next(l, v)
				calls = append(calls, name+":after")
				return d
			}
		}

		a := newEmitUsize().Create()
		b := newTakeUsize().Create()
		MustAttach(OutParams(a)[0], InParams(b)[0])
		a.Output(0).Intercept(mk("first"), mk("second"))

		d := a.Output(0).Update(katom.UsizeValue(1))
		assert.Equal(t, 1, d.Delivered)
		assert.Equal(t, []string{"first:before", "second:before", "second:after", "first:after"}, calls)
		assert.Equal(t, uint64(1), takeOf(b).received)
	})

	t.Run("interceptor can swallow a publish", func(t *testing.T) {
		a := newEmitUsize().Create()
		b := newTakeUsize().Create()
		MustAttach(OutParams(a)[0], InParams(b)[0])
		a.Output(0).Intercept(func(*Link, katom.Value, PublishFunc) Delivery { return Delivery{} })

		a.Output(0).Update(katom.UsizeValue(1))
		assert.Equal(t, 0, takeOf(b).calls)

		latest, ok := a.Output(0).Latest()
		assert.True(t, ok)
		assert.Equal(t, katom.UsizeValue(1), latest)
	})

	t.Run("reset", func(t *testing.T) {
		l := NewLink(katom.Usize)
		hit := false
		l.Intercept(func(l *Link, v katom.Value, next PublishFunc) Delivery {
			hit = true
			return next(l, v)
		})
		l.Intercept()
		l.Update(katom.UsizeValue(1))
		assert.False(t, hit)
	})
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	l := NewLink(katom.Usize)
	l.Intercept(LoggingInterceptor(logger))
	l.Update(katom.UsizeValue(42))

	assert.Contains(t, buf.String(), "Published value")
	assert.Contains(t, buf.String(), "value=usize:42")
	assert.Contains(t, buf.String(), "delivered=0")
}
