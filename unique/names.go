package unique

import (
	"strconv"

	"github.com/m4gshm/gollections/collection/mutable"
	"github.com/m4gshm/gollections/seq"
)

func NewNamesWith(opts ...func(*Names)) *Names {
	u := &Names{calc: increment(1, 1)}
	for _, o := range opts {
		o(u)
	}
	return u
}

// PreInit reserves names, so they are never returned as is.
func PreInit(names ...string) func(*Names) {
	return func(un *Names) {
		seq.ForEach(seq.Of(names...), un.Add)
	}
}

// Names generates distinct names: a taken name gets a numeric suffix.
type Names struct {
	uniques *mutable.Set[string]
	calc    func(u *Names, name string) string
}

func (u *Names) Get(name string) string {
	if u != nil {
		if u.uniques == nil {
			u.uniques = mutable.NewSet[string]()
		}
		name = u.calc(u, name)
	}
	return name
}

func (u *Names) Add(name string) {
	u.Get(name)
}

func increment(first, delta int) func(u *Names, name string) string {
	return func(u *Names, name string) string {
		candidate := name
		for i := first; !u.uniques.AddNew(candidate); i += delta {
			candidate = name + strconv.Itoa(i)
		}
		return candidate
	}
}
