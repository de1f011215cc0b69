package bus

// allows independent components of the control plane to observe
// lifecycle notifications produced by decoupled producers
//
// producer of "appnamespace.deleted"
// 	   b.Post("appnamespace.deleted", event)
//
// observer of "appnamespace.deleted"
//     myChan := make(chan interface{})
//     b.Listen("appnamespace.deleted", myChan)
//     for {
//         data := <-myChan
//         ...
//     }
//
// make sure these events are unique

import (
	"errors"
	"sync"
)

var ErrNotFound = errors.New("not found")

type Bus struct {
	// mapping of event to listening channels
	listeners map[string][]chan<- interface{}
	rwMutex   sync.RWMutex
}

func New() *Bus {
	return &Bus{
		listeners: make(map[string][]chan<- interface{}),
	}
}

// Listen observes the specified event via provided channel
func (b *Bus) Listen(event string, out chan interface{}) {
	b.rwMutex.Lock()
	defer b.rwMutex.Unlock()
	b.listeners[event] = append(b.listeners[event], out)
}

// Stop observing the specified event on the channel
func (b *Bus) Stop(event string, out chan interface{}) error {
	b.rwMutex.Lock()
	defer b.rwMutex.Unlock()

	outChans, ok := b.listeners[event]
	if !ok {
		return ErrNotFound
	}
	remaining := make([]chan<- interface{}, 0)
	for _, ch := range outChans {
		if ch != out {
			remaining = append(remaining, ch)
		}
	}
	b.listeners[event] = remaining

	return nil
}

// Post a notification to the specified event
func (b *Bus) Post(event string, data interface{}) error {
	b.rwMutex.RLock()
	defer b.rwMutex.RUnlock()

	listeners, ok := b.listeners[event]
	if !ok {
		return ErrNotFound
	}
	for _, out := range listeners {
		out <- data
	}
	return nil
}
