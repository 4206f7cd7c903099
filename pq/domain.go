package pq

import (
	"reflect"
	"sync"

	"github.com/jayshah2111/lock-free-concurrent-pq/hazard"
)

// defaultDomains memoizes one *hazard.Domain[node[T]] per instantiation
// of T, lazily built on first use. This is the Go-native analogue of
// the original's function-local static singleton: a package-level
// sync.Map keyed by reflect.Type sidesteps any ordering dependency on
// package init() across translation units, at the cost of a type
// assertion on the lookup path.
var defaultDomains sync.Map // map[reflect.Type]any (*hazard.Domain[node[T]])

// DefaultDomainCapacity sizes the process-wide hazard domain New[T]
// falls back to when no domain is supplied explicitly. Each in-flight
// Push or Pop holds up to popSlotCount slots for the duration of one
// call, so this is set high enough to let a realistic number of
// goroutines operate on the same default-domain queue concurrently
// without spinning on slot exhaustion; hazard.DefaultCapacity alone
// (sized for a handful of slots per caller) would be too small here.
const DefaultDomainCapacity = popSlotCount * 64

// NewDomain constructs a hazard domain compatible with Queue[T],
// for callers of New that want an explicit domain (non-default
// capacity, or isolation from the process-wide default). Go gives no
// way to spell *hazard.Domain[node[T]] outside this package since
// node[T] is unexported; this function is the supported way to get
// one. The caller never needs to name the underlying type, only
// assign or pass through what it returns.
func NewDomain[T any](capacity int) *hazard.Domain[node[T]] {
	return hazard.NewDomain[node[T]](capacity)
}

func defaultDomainFor[T any]() *hazard.Domain[node[T]] {
	key := reflect.TypeOf((*node[T])(nil))
	if v, ok := defaultDomains.Load(key); ok {
		return v.(*hazard.Domain[node[T]])
	}
	d := hazard.NewDomain[node[T]](DefaultDomainCapacity)
	actual, _ := defaultDomains.LoadOrStore(key, d)
	return actual.(*hazard.Domain[node[T]])
}
