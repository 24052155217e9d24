package sim

import (
	"sync"

	"github.com/san-kum/liisim/internal/ode"
)

type StatePool struct {
	pool sync.Pool
	size int
}

func NewStatePool(stateSize int) *StatePool {
	return &StatePool{
		size: stateSize,
		pool: sync.Pool{
			New: func() interface{} {
				return make(ode.State, stateSize)
			},
		},
	}
}

func (p *StatePool) Get() ode.State {
	return p.pool.Get().(ode.State)
}

func (p *StatePool) Put(s ode.State) {
	if len(s) == p.size {
		for i := range s {
			s[i] = 0
		}
		p.pool.Put(s)
	}
}

func (p *StatePool) GetAndCopy(src ode.State) ode.State {
	dst := p.Get()
	copy(dst, src)
	return dst
}
