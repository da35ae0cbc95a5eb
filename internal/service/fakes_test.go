package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Skotchmaster/online_catalog/internal/dbtest"
	"github.com/Skotchmaster/online_catalog/internal/repo"
	"github.com/Skotchmaster/online_catalog/internal/transport"
)

func ptr[T any](v T) *T { return &v }

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return &repo.GormRepo{DB: dbtest.Open(t)}
}

type published struct {
	topic string
	key   string
	event Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, published{topic: topic, key: key, event: event.(Event)})
	return nil
}

func (f *fakePublisher) types(topic string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, p := range f.events {
		if p.topic == topic {
			out = append(out, p.event.Type)
		}
	}
	return out
}

type fakeIndex struct {
	docs map[uint]transport.ProductView
	err  error
}

func newFakeIndex() *fakeIndex { return &fakeIndex{docs: map[uint]transport.ProductView{}} }

func (f *fakeIndex) IndexProduct(_ context.Context, v transport.ProductView) error {
	if f.err != nil {
		return f.err
	}
	f.docs[v.ID] = v
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uint) error {
	delete(f.docs, id)
	return f.err
}

func (f *fakeIndex) SearchProducts(_ context.Context, _ string, from, size int) (int64, []transport.ProductView, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	var out []transport.ProductView
	for _, v := range f.docs {
		out = append(out, v)
	}
	total := int64(len(out))
	if from >= len(out) {
		return total, nil, nil
	}
	out = out[from:]
	if len(out) > size {
		out = out[:size]
	}
	return total, out, nil
}

type fakeCache struct {
	items   map[uint]transport.ProductView
	forgets []uint
}

func newFakeCache() *fakeCache { return &fakeCache{items: map[uint]transport.ProductView{}} }

func (f *fakeCache) GetProduct(_ context.Context, id uint) (*transport.ProductView, error) {
	v, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (f *fakeCache) SetProduct(_ context.Context, v transport.ProductView) error {
	f.items[v.ID] = v
	return nil
}

func (f *fakeCache) ForgetProduct(_ context.Context, id uint) error {
	f.forgets = append(f.forgets, id)
	delete(f.items, id)
	return nil
}

var errBroker = errors.New("broker down")
